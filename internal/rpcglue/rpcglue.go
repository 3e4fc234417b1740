// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: spec.md §6 ("RPC surface (collaborator)") and §7 ("a
//   manager whose backend is absent yields None, not an error; the RPC
//   path converts this to Unimplemented"). No protobuf/gRPC definitions
//   exist in this repo; this package only supplies the mapping a future
//   RPC server would call into.
//

// Package rpcglue translates platform-abstraction-layer capability
// results (a nil manager, an unknown action, a call failure) into the
// three RPC status categories spec.md §6 names for the collaborator
// surface: Unimplemented, InvalidArgument, and Internal. It does not
// implement the RPC server itself.
package rpcglue

import (
	"context"

	"github.com/Janrupf/dragon-claw/internal/model"
	"github.com/Janrupf/dragon-claw/internal/power"
)

// Status is one of the RPC outcome categories from spec.md §6.
type Status int

const (
	// OK means the call completed normally.
	OK Status = iota
	// Unimplemented means no backend is available for this capability on
	// this host (not an error: construction of an absent backend yields
	// nil, not a failure, per spec.md §7).
	Unimplemented
	// InvalidArgument means the request named an action or argument this
	// capability does not recognize.
	InvalidArgument
	// Internal means the backend is available and the argument was
	// recognized, but the call itself failed.
	Internal
)

// String renders the status for logging.
func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Unimplemented:
		return "unimplemented"
	case InvalidArgument:
		return "invalid_argument"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Version is the agent version surfaced by GetAgentVersion, parsed from
// build metadata rather than hard-coded.
type Version struct {
	Major      uint32
	Minor      uint32
	Patch      uint32
	PreRelease string // empty for a release build
}

// knownPowerActions lists every [model.PowerAction] value the RPC
// surface recognizes. An action code outside this set is
// InvalidArgument regardless of what any particular manager supports.
var knownPowerActions = map[model.PowerAction]bool{
	model.PowerOff:         true,
	model.Reboot:           true,
	model.RebootToFirmware: true,
	model.Lock:             true,
	model.LogOut:           true,
	model.Suspend:          true,
	model.Hibernate:        true,
	model.HybridSuspend:    true,
}

// IsKnownPowerAction reports whether action is one the RPC surface can
// parse at all, independent of whether the platform supports it.
func IsKnownPowerAction(action model.PowerAction) bool {
	return knownPowerActions[action]
}

// GetSupportedPowerActions returns the actions mgr reports as supported,
// or an empty list when mgr is nil (no power manager available) --
// never an error, per spec.md §6.
func GetSupportedPowerActions(ctx context.Context, mgr power.Manager) ([]model.PowerAction, error) {
	if mgr == nil {
		return nil, nil
	}
	return mgr.Supported(ctx)
}

// PerformPowerAction maps a power-action request onto §6's three
// failure categories: Unimplemented when mgr is nil, InvalidArgument
// when action is not one rpcglue recognizes at all, Internal when mgr
// recognizes the action but the call itself fails. err is non-nil only
// for the Internal case, carrying the underlying cause for logging.
func PerformPowerAction(ctx context.Context, mgr power.Manager, action model.PowerAction) (Status, error) {
	if mgr == nil {
		return Unimplemented, nil
	}
	if !IsKnownPowerAction(action) {
		return InvalidArgument, nil
	}
	if err := mgr.Perform(ctx, action); err != nil {
		return Internal, err
	}
	return OK, nil
}
