//go:build windows

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/pal/windows/service/dispatcher.rs
//   (ServiceData one-shot slot, ServiceCtrlContext, report_status
//    checkpoint discipline, control handler STOP/INTERROGATE/default)
// and original_source/agent/src/pal/windows/service/mod.rs
//   (ServiceEnvironment::detect token-group SID scan)
//

package winsvc

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bassosimone/runtimex"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"

	"github.com/Janrupf/dragon-claw/internal/dcerr"
)

// dispatching guards against a second concurrent Dispatch call, modeling
// the original's process-wide atomic compare-and-set slot.
var dispatching atomic.Bool

// DetectEnvironment classifies how the process was launched by
// inspecting the process token's group SIDs, delegating to
// golang.org/x/sys/windows/svc which implements the same
// interactive-session-SID / service-SID check the original performs by
// hand.
func DetectEnvironment() Environment {
	isService, err := svc.IsWindowsService()
	if err != nil || !isService {
		return EnvNone
	}
	return EnvSystem
}

// Dispatch invokes the platform service dispatcher. It refuses a second
// concurrent dispatch with an [dcerr.Unsupportedf]-shaped error (spec's
// InvalidState). body is invoked on the SCM-issued service-main thread
// once the control handler is installed and the status handle obtained.
func Dispatch(body Body) error {
	if !dispatching.CompareAndSwap(false, true) {
		return dcerr.Unsupportedf("winsvc: a service dispatch is already in progress")
	}
	defer dispatching.Store(false)

	return svc.Run(ServiceName, &handler{body: body})
}

type handler struct {
	body Body
}

// Execute is called back by the SCM on its own thread. It installs the
// control handler implicitly (svc.Run already registered one), reports
// START_PENDING, runs body in its own goroutine, and translates control
// requests (STOP, INTERROGATE) into status reports and the one-shot
// shutdown channel, per the checkpoint discipline in spec §4.I.
func (h *handler) Execute(args []string, r <-chan svc.ChangeRequest, s chan<- svc.Status) (bool, uint32) {
	checkpoint := &atomicCheckpoint{}

	s <- svc.Status{State: svc.StartPending, CheckPoint: checkpoint.next(), WaitHint: 5000}

	shutdownCh := make(chan struct{})
	var shutdownOnce sync.Once
	closeShutdown := func() { shutdownOnce.Do(func() { close(shutdownCh) }) }

	disp := &dispatcher{statusCh: s, checkpoint: checkpoint}

	done := make(chan error, 1)
	go func() {
		done <- h.body(context.Background(), shutdownCh, disp)
	}()

	s <- svc.Status{
		State:      svc.Running,
		Accepts:    svc.AcceptStop,
		CheckPoint: checkpoint.next(),
	}

	for {
		select {
		case req := <-r:
			switch req.Cmd {
			case svc.Stop, svc.Shutdown:
				s <- svc.Status{State: svc.StopPending, CheckPoint: checkpoint.next(), WaitHint: 5000}
				closeShutdown()
			case svc.Interrogate:
				s <- req.CurrentStatus
			default:
				// unhandled controls are not acknowledged; the SCM
				// treats the absence of a status update as
				// ERROR_CALL_NOT_IMPLEMENTED for that control.
			}
		case err := <-done:
			if err != nil {
				s <- svc.Status{State: svc.Stopped, CheckPoint: checkpoint.next()}
				return false, 1
			}
			s <- svc.Status{State: svc.Stopped, CheckPoint: checkpoint.next()}
			return false, 0
		}
	}
}

// atomicCheckpoint is the monotonically incrementing checkpoint counter,
// starting at 1, shared by every report_status call in one dispatch. The
// SCM considers a non-increasing checkpoint a hung service.
type atomicCheckpoint struct {
	n atomic.Uint32
}

func (c *atomicCheckpoint) next() uint32 {
	prev := c.n.Load()
	v := c.n.Add(1)
	runtimex.Assert(v > prev)
	return v
}

// dispatcher adapts the raw svc.Status channel to the [Dispatcher]
// interface consumed by the status manager.
type dispatcher struct {
	statusCh   chan<- svc.Status
	checkpoint *atomicCheckpoint
}

var _ Dispatcher = (*dispatcher)(nil)

func (d *dispatcher) ReportStartPending() {
	d.statusCh <- svc.Status{State: svc.StartPending, CheckPoint: d.checkpoint.next(), WaitHint: 5000}
}

func (d *dispatcher) ReportRunning() {
	d.statusCh <- svc.Status{State: svc.Running, Accepts: svc.AcceptStop, CheckPoint: d.checkpoint.next()}
}

func (d *dispatcher) ReportStopPending() {
	d.statusCh <- svc.Status{State: svc.StopPending, CheckPoint: d.checkpoint.next(), WaitHint: 5000}
}

func (d *dispatcher) ReportStoppedOK() {
	d.statusCh <- svc.Status{State: svc.Stopped, CheckPoint: d.checkpoint.next()}
}

func (d *dispatcher) ReportStoppedWin32(code uint32) {
	d.statusCh <- svc.Status{State: svc.Stopped, CheckPoint: d.checkpoint.next(), Win32ExitCode: code}
}

func (d *dispatcher) ReportStoppedApplicationErr(code uint32) {
	d.statusCh <- svc.Status{
		State:                   svc.Stopped,
		CheckPoint:              d.checkpoint.next(),
		Win32ExitCode:           uint32(windows.ERROR_SERVICE_SPECIFIC_ERROR),
		ServiceSpecificExitCode: code,
	}
}
