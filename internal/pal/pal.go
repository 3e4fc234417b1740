// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/pal/mod.rs, pal/linux/mod.rs,
//   pal/windows/mod.rs (PlatformAbstraction::new / dispatch_main;
//   capability queries return Option<&Manager>)
//

// Package pal composes the rest of the core into the platform
// abstraction layer (component J): a single dispatch_main entry point
// that initialises OS resources, constructs the power/discovery/status
// managers, and hands control to the caller-supplied body with a
// unified shutdown signal.
package pal

import (
	"context"

	"github.com/Janrupf/dragon-claw/internal/discovery"
	"github.com/Janrupf/dragon-claw/internal/dlog"
	"github.com/Janrupf/dragon-claw/internal/power"
	"github.com/Janrupf/dragon-claw/internal/status"
)

// PAL exposes the three capability families behind a single
// capability-query interface, with graceful degradation when a
// capability is unavailable.
type PAL struct {
	Logger dlog.Logger

	discoveryMgr *discovery.Manager
	powerMgr     power.Manager // nil if unavailable
	statusMgr    status.Manager
}

// Discovery returns the discovery manager. Unlike Power, it is never
// nil: it always exists, even if both its SSDP and mDNS arms end up
// unsupported on this host.
func (p *PAL) Discovery() *discovery.Manager {
	return p.discoveryMgr
}

// Power returns the power manager and whether one is available at all.
// A manager whose backend could not be constructed (on Linux, no system
// bus connection) is reported as "not supported", distinct from a manager that
// exists but fails a specific call.
func (p *PAL) Power() (power.Manager, bool) {
	return p.powerMgr, p.powerMgr != nil
}

// Status returns the status manager. Always non-nil: Linux uses a
// no-op, Windows a real-or-noop dispatcher-backed implementation.
func (p *PAL) Status() status.Manager {
	return p.statusMgr
}

// Body is the caller-supplied top-level application logic: typically
// "advertise, then serve RPC requests until shutdown fires". shutdown is
// closed exactly once, from Ctrl-C (Linux, or interactive Windows) or an
// SCM STOP control (Windows service).
type Body func(ctx context.Context, p *PAL, shutdown <-chan struct{}) error
