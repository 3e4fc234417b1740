// SPDX-License-Identifier: GPL-3.0-or-later

// Package model holds the data model shared by every component of the
// core: addresses with scope, service endpoints, power actions, and
// application status.
package model

import (
	"fmt"
	"net"
)

// Family identifies an address family.
type Family int

const (
	FamilyV4 Family = iota
	FamilyV6
)

// Addr is an address tagged with its family and, for v6, an interface
// scope id. Scope id is mandatory for v6 multicast and link-local
// addresses; it is always zero (and ignored) for v4.
type Addr struct {
	Family  Family
	IP      net.IP
	ScopeID uint32 // interface index, v6 only
}

// IsLoopback reports whether the address is a loopback address.
func (a Addr) IsLoopback() bool {
	return a.IP.IsLoopback()
}

// String renders the address the way it appears in log lines and in
// the SSDP LOCATION header's host part.
func (a Addr) String() string {
	if a.Family == FamilyV6 && a.ScopeID != 0 {
		return fmt.Sprintf("%s%%%d", a.IP.String(), a.ScopeID)
	}
	return a.IP.String()
}

// AddrFromIP classifies a net.IP into an [Addr], looking up the scope id
// from ifaceIndex when the address is v6 (ifaceIndex is ignored for v4).
func AddrFromIP(ip net.IP, ifaceIndex uint32) Addr {
	if v4 := ip.To4(); v4 != nil {
		return Addr{Family: FamilyV4, IP: v4}
	}
	return Addr{Family: FamilyV6, IP: ip.To16(), ScopeID: ifaceIndex}
}

// Endpoint is the immutable service endpoint created at advertise and
// destroyed at stop. A process holds at most one live endpoint.
type Endpoint struct {
	Name string
	Addr Addr
	Port uint16
}

// PowerAction enumerates the power actions the PAL can probe and perform.
type PowerAction int

const (
	PowerOff PowerAction = iota
	Reboot
	RebootToFirmware
	Lock
	LogOut
	Suspend
	Hibernate
	HybridSuspend
)

// String renders the action for logging and for the RPC glue layer.
func (a PowerAction) String() string {
	switch a {
	case PowerOff:
		return "power_off"
	case Reboot:
		return "reboot"
	case RebootToFirmware:
		return "reboot_to_firmware"
	case Lock:
		return "lock"
	case LogOut:
		return "log_out"
	case Suspend:
		return "suspend"
	case Hibernate:
		return "hibernate"
	case HybridSuspend:
		return "hybrid_suspend"
	default:
		return "unknown"
	}
}

// AppStatusKind enumerates the application lifecycle states. The linear
// lifecycle is Starting -> Running -> Stopping -> Stopped; either error
// variant is a terminal equivalent of Stopped.
type AppStatusKind int

const (
	Starting AppStatusKind = iota
	Running
	Stopping
	Stopped
	PlatformErrorStatus
	ApplicationErrorStatus
)

// AppStatus is the application status value reported to the status
// manager. PlatformErr / AppErr are populated only for the two error
// variants.
type AppStatus struct {
	Kind       AppStatusKind
	PlatformErr error // set when Kind == PlatformErrorStatus
	AppErr      error // set when Kind == ApplicationErrorStatus
}
