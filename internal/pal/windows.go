//go:build windows

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/pal/windows/mod.rs
//   (PlatformAbstraction::new acquires SeShutdownPrivilege and
//    SeSystemEnvironmentPrivilege, each failure non-fatal and logged;
//    dispatch_main branches on ServiceEnvironment::detect)
//

package pal

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/windows"

	"github.com/Janrupf/dragon-claw/internal/discovery"
	"github.com/Janrupf/dragon-claw/internal/dlog"
	"github.com/Janrupf/dragon-claw/internal/power"
	"github.com/Janrupf/dragon-claw/internal/registrar"
	"github.com/Janrupf/dragon-claw/internal/status"
	"github.com/Janrupf/dragon-claw/internal/winsvc"
)

// build assembles a *PAL once the caller knows which [winsvc.Dispatcher]
// (real or no-op) the status manager should report through.
func build(logger dlog.Logger, hasShutdownPrivilege, hasSystemEnvironmentPrivilege bool, dispatcher winsvc.Dispatcher) *PAL {
	powerCfg := power.NewConfig()
	powerCfg.Logger = logger
	p := &PAL{
		Logger:    logger,
		statusMgr: status.New(logger, dispatcher),
		powerMgr:  power.New(powerCfg, hasShutdownPrivilege, hasSystemEnvironmentPrivilege),
	}

	var reg registrar.Registrar
	regCfg := registrar.NewConfig()
	regCfg.Logger = logger
	if win, err := registrar.New(regCfg); err != nil {
		logger.Warn("pal: dns-sd registrar unavailable", "error", err)
	} else {
		reg = win
	}

	discCfg := discovery.NewConfig()
	discCfg.Logger = logger
	discCfg.SSDP.Logger = logger
	p.discoveryMgr = discovery.New(discCfg, reg)

	return p
}

// DispatchMain acquires the privileges power management needs, detects
// whether the process was launched by the SCM, and either runs body
// directly under Ctrl-C (interactive) or routes it through the real
// service dispatcher (component I), which supplies body with a live
// [winsvc.Dispatcher] the status manager reports lifecycle transitions
// through.
func DispatchMain(logger dlog.Logger, body Body) error {
	if logger == nil {
		logger = dlog.Default()
	}

	hasShutdown := acquirePrivilege("SeShutdownPrivilege")
	if !hasShutdown {
		logger.Warn("pal: could not acquire SeShutdownPrivilege, power actions will be unsupported")
	}
	hasSysEnv := acquirePrivilege("SeSystemEnvironmentPrivilege")
	if !hasSysEnv {
		logger.Warn("pal: could not acquire SeSystemEnvironmentPrivilege, firmware reboot will be unsupported")
	}

	if winsvc.DetectEnvironment() == winsvc.EnvNone {
		p := build(logger, hasShutdown, hasSysEnv, winsvc.NoopDispatcher{})

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		shutdown := make(chan struct{})
		go func() {
			<-ctx.Done()
			close(shutdown)
		}()

		return body(ctx, p, shutdown)
	}

	return winsvc.Dispatch(func(ctx context.Context, shutdown <-chan struct{}, dispatcher winsvc.Dispatcher) error {
		p := build(logger, hasShutdown, hasSysEnv, dispatcher)
		return body(ctx, p, shutdown)
	})
}

// acquirePrivilege enables name in the process's own token, returning
// false (and logging nothing itself; the caller logs) on any failure.
// Every step is best-effort: a missing privilege just narrows what the
// power manager later reports as supported.
func acquirePrivilege(name string) bool {
	var token windows.Token
	proc := windows.CurrentProcess()
	if err := windows.OpenProcessToken(proc, windows.TOKEN_ADJUST_PRIVILEGES|windows.TOKEN_QUERY, &token); err != nil {
		return false
	}
	defer token.Close()

	var luid windows.LUID
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return false
	}
	if err := windows.LookupPrivilegeValue(nil, namePtr, &luid); err != nil {
		return false
	}

	privileges := windows.Tokenprivileges{
		PrivilegeCount: 1,
		Privileges: [1]windows.LUIDAndAttributes{
			{Luid: luid, Attributes: windows.SE_PRIVILEGE_ENABLED},
		},
	}
	if err := windows.AdjustTokenPrivileges(token, false, &privileges, 0, nil, nil); err != nil {
		return false
	}
	// AdjustTokenPrivileges can succeed while silently not granting the
	// privilege (ERROR_NOT_ALL_ASSIGNED via GetLastError); the original
	// checks for that, so do we.
	if lastErr := windows.GetLastError(); lastErr == windows.ERROR_NOT_ALL_ASSIGNED {
		return false
	}
	return true
}
