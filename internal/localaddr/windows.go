//go:build windows

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/pal/windows/mod.rs
//   (adapter address enumeration skips anycast/multicast/DNS-only entries)
//

package localaddr

import (
	"net"

	"golang.org/x/sys/windows"

	"github.com/Janrupf/dragon-claw/internal/dcerr"
)

// platformUsable filters out interfaces that Windows' GetAdaptersAddresses
// would skip: anything not currently up, plus loopback/tunnel style
// pseudo-adapters that never carry real peers.
func platformUsable(ifi net.Interface) bool {
	if ifi.Flags&net.FlagUp == 0 {
		return false
	}
	if ifi.Flags&net.FlagLoopback != 0 {
		return false
	}
	if ifi.Flags&net.FlagPointToPoint != 0 {
		return false
	}
	return true
}

// addressNotAvailableErr mirrors unix.go's EADDRNOTAVAIL, using the
// WSA-prefixed equivalent Winsock returns for the same condition.
func addressNotAvailableErr() error {
	return dcerr.New(dcerr.Io, windows.WSAEADDRNOTAVAIL)
}
