//go:build unix

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/pal/linux/discovery.rs
//   (get_local_addresses, via libc::getifaddrs)
//

package localaddr

import (
	"net"

	"golang.org/x/sys/unix"

	"github.com/Janrupf/dragon-claw/internal/dcerr"
)

// platformUsable reports whether an interface should be considered at
// all. On unix only interfaces that are currently up are candidates;
// the family/loopback checks are left to Enumerate.
func platformUsable(ifi net.Interface) bool {
	return ifi.Flags&net.FlagUp != 0
}

// addressNotAvailableErr reports the errno getifaddrs()/bind() would
// surface when no usable address exists, per spec.md §8's "enumerating
// local addresses when only loopback interfaces exist yields
// AddressNotAvailable".
func addressNotAvailableErr() error {
	return dcerr.New(dcerr.Io, unix.EADDRNOTAVAIL)
}
