// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/ssdp/mod.rs
//   (build_ssdp_message, http_request_to_data, data_to_http_request,
//    find_subsequence, trim_slice)
//

// Package ssdpwire encodes and decodes the minimal HTTP/1.1-shaped
// messages SSDP carries over multicast UDP: NOTIFY and M-SEARCH.
//
// The decoder is deliberately permissive. It is not a general HTTP
// parser: real SSDP traffic on the wire does not reliably conform to
// net/http's strict grammar, so this package scans for message
// boundaries and tolerates malformed lines by skipping them.
package ssdpwire

import (
	"bytes"
	"strings"
)

const crlf = "\r\n"
const crlfcrlf = "\r\n\r\n"

// MaxBufferSize is the cap the receive buffer is held to; exceeding it
// clears the buffer entirely rather than growing it further. This is a
// specified, lossy-by-design behaviour (not a bug): a burst of malformed
// or oversized traffic would otherwise pin an unbounded amount of memory
// in the receive loop, and SSDP senders already retry periodically, so
// dropping a partial buffer costs at most one missed message.
const MaxBufferSize = 4096

// Message is a decoded or to-be-encoded SSDP message: a request line
// split into exactly three tokens plus a set of headers.
type Message struct {
	Method  string // e.g. "NOTIFY", "M-SEARCH"
	Target  string // e.g. "*"
	Version string // e.g. "HTTP/1.1"
	Headers map[string]string
}

// NewMessage returns an empty [Message] ready for headers to be set.
func NewMessage(method, target, version string) *Message {
	return &Message{Method: method, Target: target, Version: version, Headers: map[string]string{}}
}

// Set adds a header, uppercasing its name to match the wire convention
// used by every header this package emits.
func (m *Message) Set(name, value string) {
	m.Headers[strings.ToUpper(name)] = value
}

// Get looks up a header by name, case-insensitively.
func (m *Message) Get(name string) (string, bool) {
	v, ok := m.Headers[strings.ToUpper(name)]
	return v, ok
}

// Encode renders the message as `METHOD SP TARGET SP VERSION CRLF`
// followed by uppercased `NAME: VALUE CRLF` header lines and a blank
// line.
func (m *Message) Encode() []byte {
	var b strings.Builder
	b.WriteString(m.Method)
	b.WriteByte(' ')
	b.WriteString(m.Target)
	b.WriteByte(' ')
	b.WriteString(m.Version)
	b.WriteString(crlf)
	for name, value := range m.Headers {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(crlf)
	}
	b.WriteString(crlf)
	return []byte(b.String())
}

// Decode scans buf for zero or more complete messages, returning the
// decoded messages and the number of bytes consumed from the front of
// buf. Callers must drain exactly that many bytes before the next call.
//
// A request line that does not split into exactly three whitespace
// separated tokens, or whose version this package does not recognize,
// aborts only the current message: the boundary bytes are still
// consumed so the receive loop never stalls on malformed input.
func Decode(buf []byte) (messages []*Message, consumed int) {
	rest := buf
	for {
		idx := bytes.Index(rest, []byte(crlfcrlf))
		if idx < 0 {
			break
		}
		raw := rest[:idx]
		boundary := idx + len(crlfcrlf)
		consumed += boundary
		rest = rest[boundary:]

		msg, ok := decodeOne(raw)
		if ok {
			messages = append(messages, msg)
		}
	}
	return messages, consumed
}

func decodeOne(raw []byte) (*Message, bool) {
	lines := strings.Split(string(raw), crlf)
	if len(lines) == 0 {
		return nil, false
	}
	tokens := strings.Fields(lines[0])
	if len(tokens) != 3 {
		return nil, false
	}
	m := NewMessage(tokens[0], tokens[1], tokens[2])
	if m.Version != "HTTP/1.1" {
		return nil, false
	}
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue // malformed header line, silently skipped
		}
		name := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		if name == "" {
			continue
		}
		m.Set(name, value)
	}
	return m, true
}

// ClampBuffer enforces [MaxBufferSize]: if buf has grown past the cap,
// it returns an empty buffer (clearing accumulated, presumably
// malformed, bytes); otherwise it returns buf unchanged.
func ClampBuffer(buf []byte) []byte {
	if len(buf) > MaxBufferSize {
		return buf[:0]
	}
	return buf
}
