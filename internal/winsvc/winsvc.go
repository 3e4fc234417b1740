// SPDX-License-Identifier: GPL-3.0-or-later

// Package winsvc implements the Windows service dispatcher (component
// I): the bridge between the SCM's callback-driven lifecycle
// (service-main thread, control handler callback, checkpointed status
// reporting) and the rest of the system's cooperative-task model.
//
// The real implementation lives in windows.go; this file holds the
// platform-independent types so [internal/pal] and [internal/status]
// can reference them without a build-tag split of their own.
package winsvc

import "context"

// ServiceName is the fixed Windows service name this agent registers
// under.
const ServiceName = "DragonClawAgent"

// Environment classifies how the process was launched.
type Environment int

const (
	// EnvNone means the process is running interactively; there is no
	// SCM to report to, and shutdown comes from Ctrl-C.
	EnvNone Environment = iota
	// EnvUser means the process token belongs to an interactive user
	// session but was started as a service under that session.
	EnvUser
	// EnvSystem means the process is running as a genuine SCM-managed
	// Windows service.
	EnvSystem
)

// Body is the caller-supplied service entry point. shutdown is closed
// exactly once, when a STOP or SHUTDOWN control is received; the
// off-Windows stub passes a nil channel, which never fires. dispatcher
// is the handle the status manager (component H)
// reports lifecycle transitions through; off a real SCM dispatch it is
// a no-op implementation.
type Body func(ctx context.Context, shutdown <-chan struct{}, dispatcher Dispatcher) error

// Dispatcher is the capability surface [internal/status]'s Windows
// status manager reports through.
type Dispatcher interface {
	ReportStartPending()
	ReportRunning()
	ReportStopPending()
	ReportStoppedOK()
	ReportStoppedWin32(code uint32)
	ReportStoppedApplicationErr(code uint32)
}

// NoopDispatcher is the [Dispatcher] used when the process is not
// running under a real service dispatcher (interactive mode on any
// platform, or any mode on non-Windows).
type NoopDispatcher struct{}

var _ Dispatcher = NoopDispatcher{}

func (NoopDispatcher) ReportStartPending()                   {}
func (NoopDispatcher) ReportRunning()                         {}
func (NoopDispatcher) ReportStopPending()                     {}
func (NoopDispatcher) ReportStoppedOK()                       {}
func (NoopDispatcher) ReportStoppedWin32(code uint32)         {}
func (NoopDispatcher) ReportStoppedApplicationErr(code uint32) {}
