package ssdp

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Janrupf/dragon-claw/internal/model"
	"github.com/Janrupf/dragon-claw/internal/ssdpwire"
)

func TestBuildNotifyHeaders(t *testing.T) {
	s := &Session{
		cfg:      NewConfig(),
		location: "tcp://192.168.1.5:37121",
		usn:      "01234567-89ab-7def-0123-456789abcdef",
	}
	addr := model.Addr{Family: model.FamilyV4, IP: net.IPv4(192, 168, 1, 5)}

	encoded := s.buildNotify(addr, "ssdp:alive")
	decoded, consumed := ssdpwire.Decode(encoded)

	require.Len(t, decoded, 1)
	assert.Equal(t, len(encoded), consumed)
	msg := decoded[0]

	nt, _ := msg.Get("NT")
	assert.Equal(t, ServiceType, nt)
	nts, _ := msg.Get("NTS")
	assert.Equal(t, "ssdp:alive", nts)
	usn, _ := msg.Get("USN")
	assert.Equal(t, "uuid:01234567-89ab-7def-0123-456789abcdef::"+ServiceType, usn)
	loc, _ := msg.Get("LOCATION")
	assert.Equal(t, "tcp://192.168.1.5:37121", loc)
	cc, _ := msg.Get("CACHE-CONTROL")
	assert.Equal(t, "max-age=30", cc)
}

func TestStopIsIdempotent(t *testing.T) {
	s := &Session{cfg: NewConfig()}
	s.Stop()
	s.Stop() // must not panic or block
}
