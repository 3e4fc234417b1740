// SPDX-License-Identifier: GPL-3.0-or-later

// Package localaddr enumerates the non-loopback unicast addresses
// currently assigned to the host, used to bind per-interface SSDP
// senders (when the advertised address is already non-wildcard, the
// SSDP engine keeps only the enumerated entry equal to it).
package localaddr

import (
	"net"

	"github.com/Janrupf/dragon-claw/internal/model"
)

// Enumerate returns every non-loopback unicast address currently
// assigned to the host, split by family. Which interfaces are considered
// at all is platform-specific (unix.go: interfaces that are up;
// windows.go: up, non-loopback, non-point-to-point); this function does
// the address walk, family split and loopback filtering common to both.
func Enumerate() (v4, v6 []AddrWithIndex, err error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, nil, err
	}
	for _, ifi := range ifaces {
		if !platformUsable(ifi) {
			continue
		}
		addrs, err := ifi.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipnet.IP
			if ip.IsLoopback() {
				continue
			}
			entry := AddrWithIndex{Addr: model.AddrFromIP(ip, uint32(ifi.Index)), Index: ifi.Index}
			if ip.To4() != nil {
				v4 = append(v4, entry)
			} else {
				v6 = append(v6, entry)
			}
		}
	}
	if len(v4) == 0 && len(v6) == 0 {
		return nil, nil, addressNotAvailableErr()
	}
	return v4, v6, nil
}

// AddrWithIndex pairs an address with the interface index it was found
// on, needed both for v6 scope ids and for pinning senders to one
// interface.
type AddrWithIndex struct {
	Addr  model.Addr
	Index int
}
