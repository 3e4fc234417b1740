//go:build windows

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/pal/windows/status.rs
//   (WindowsStatusManager: maps ApplicationStatus to SCM state via the
//    service dispatcher; no-ops when running interactively)
//

package status

import (
	"context"

	"github.com/Janrupf/dragon-claw/internal/dcerr"
	"github.com/Janrupf/dragon-claw/internal/dlog"
	"github.com/Janrupf/dragon-claw/internal/model"
	"github.com/Janrupf/dragon-claw/internal/winsvc"
)

// WindowsManager delegates every transition to a [winsvc.Dispatcher].
// When no real dispatcher is present (the process is running
// interactively) it is a [winsvc.NoopDispatcher] and every call below is
// a no-op, matching the "no service dispatcher present" early return in
// the original.
type WindowsManager struct {
	logger     dlog.Logger
	dispatcher winsvc.Dispatcher
}

var _ Manager = (*WindowsManager)(nil)

// New returns a [*WindowsManager] reporting through dispatcher.
func New(logger dlog.Logger, dispatcher winsvc.Dispatcher) *WindowsManager {
	if dispatcher == nil {
		dispatcher = winsvc.NoopDispatcher{}
	}
	return &WindowsManager{logger: logger, dispatcher: dispatcher}
}

// SetStatus maps status onto the table in spec §4.H.
func (m *WindowsManager) SetStatus(ctx context.Context, status model.AppStatus) {
	switch status.Kind {
	case model.Starting:
		m.dispatcher.ReportStartPending()
	case model.Running:
		m.dispatcher.ReportRunning()
	case model.Stopping:
		m.dispatcher.ReportStopPending()
	case model.Stopped:
		m.dispatcher.ReportStoppedOK()
	case model.PlatformErrorStatus:
		if dcErr, ok := status.PlatformErr.(*dcerr.Error); ok && dcErr.Kind == dcerr.PlatformWin32 {
			m.dispatcher.ReportStoppedWin32(dcErr.Code)
		} else {
			m.dispatcher.ReportStoppedApplicationErr(1)
		}
	case model.ApplicationErrorStatus:
		m.dispatcher.ReportStoppedApplicationErr(2)
	}
}
