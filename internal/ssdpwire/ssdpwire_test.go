package ssdpwire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	msg := NewMessage("NOTIFY", "*", "HTTP/1.1")
	msg.Set("host", "239.255.255.250:1900")
	msg.Set("nt", "urn:dragon-claw:service:DragonClawAgent:1")
	msg.Set("nts", "ssdp:alive")

	encoded := msg.Encode()
	decoded, consumed := Decode(encoded)

	require.Len(t, decoded, 1)
	assert.Equal(t, len(encoded), consumed)
	assert.Equal(t, "NOTIFY", decoded[0].Method)
	assert.Equal(t, "*", decoded[0].Target)
	v, ok := decoded[0].Get("NT")
	require.True(t, ok)
	assert.Equal(t, "urn:dragon-claw:service:DragonClawAgent:1", v)
}

func TestDecodeBackToBackMessages(t *testing.T) {
	a := NewMessage("NOTIFY", "*", "HTTP/1.1")
	a.Set("nts", "ssdp:alive")
	b := NewMessage("M-SEARCH", "*", "HTTP/1.1")
	b.Set("st", "urn:dragon-claw:service:DragonClawAgent:1")

	buf := append(a.Encode(), b.Encode()...)
	decoded, consumed := Decode(buf)

	require.Len(t, decoded, 2)
	assert.Equal(t, len(buf), consumed)
	assert.Equal(t, "NOTIFY", decoded[0].Method)
	assert.Equal(t, "M-SEARCH", decoded[1].Method)
}

func TestDecodeSkipsMalformedHeaderLine(t *testing.T) {
	raw := "NOTIFY * HTTP/1.1\r\nmalformed-no-colon\r\nNT: urn:x\r\n\r\n"
	decoded, consumed := Decode([]byte(raw))

	require.Len(t, decoded, 1)
	assert.Equal(t, len(raw), consumed)
	v, ok := decoded[0].Get("NT")
	require.True(t, ok)
	assert.Equal(t, "urn:x", v)
}

func TestDecodeAbortsOnBadRequestLine(t *testing.T) {
	raw := "NOT-THREE-TOKENS\r\nNT: urn:x\r\n\r\n"
	decoded, consumed := Decode([]byte(raw))

	assert.Empty(t, decoded)
	assert.Equal(t, len(raw), consumed)
}

func TestDecodeAbortsOnUnsupportedVersion(t *testing.T) {
	raw := "NOTIFY * HTTP/2.0\r\n\r\n"
	decoded, consumed := Decode([]byte(raw))

	assert.Empty(t, decoded)
	assert.Equal(t, len(raw), consumed)
}

func TestDecodeNoBoundaryConsumesNothing(t *testing.T) {
	raw := "NOTIFY * HTTP/1.1\r\nNT: urn:x\r\n"
	decoded, consumed := Decode([]byte(raw))

	assert.Empty(t, decoded)
	assert.Equal(t, 0, consumed)
}

func TestClampBufferClearsOversizedBuffer(t *testing.T) {
	buf := make([]byte, MaxBufferSize+1)
	clamped := ClampBuffer(buf)
	assert.Empty(t, clamped)
}

func TestClampBufferLeavesSmallBufferUntouched(t *testing.T) {
	buf := make([]byte, 10)
	clamped := ClampBuffer(buf)
	assert.Len(t, clamped, 10)
}
