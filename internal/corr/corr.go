// SPDX-License-Identifier: GPL-3.0-or-later

// Package corr provides correlation identifiers for log lines spanning a
// single advertise/stop cycle or SSDP session.
package corr

import (
	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewSpanID returns a UUIDv7 identifying a span of related operations,
// e.g. one advertise-then-stop cycle of the discovery manager, or one
// SSDP multicast session.
//
// This function panics if the system random number generator fails,
// which should only happen under extraordinary circumstances.
func NewSpanID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}
