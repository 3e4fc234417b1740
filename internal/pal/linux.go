//go:build linux

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/pal/linux/mod.rs
//   (PlatformAbstraction::new connects to the system bus once and shares
//    it between the Avahi registrar and the login1 power manager;
//    dispatch_main just runs the body to completion under Ctrl-C)
//

package pal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"

	"github.com/Janrupf/dragon-claw/internal/dcerr"
	"github.com/Janrupf/dragon-claw/internal/discovery"
	"github.com/Janrupf/dragon-claw/internal/dlog"
	"github.com/Janrupf/dragon-claw/internal/power"
	"github.com/Janrupf/dragon-claw/internal/registrar"
	"github.com/Janrupf/dragon-claw/internal/status"
)

// New constructs the Linux platform abstraction. It connects to the
// system bus once and shares the connection between the registrar and
// the power manager; a bus connection failure is logged and leaves both
// capabilities unavailable rather than aborting startup.
func New(logger dlog.Logger) *PAL {
	if logger == nil {
		logger = dlog.Default()
	}

	p := &PAL{
		Logger:    logger,
		statusMgr: status.New(),
	}

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		logger.Warn("pal: system bus unavailable, discovery and power management disabled", "error", err)
		discCfg := discovery.NewConfig()
		discCfg.Logger = logger
		discCfg.SSDP.Logger = logger
		p.discoveryMgr = discovery.New(discCfg, nil)
		return p
	}

	var reg registrar.Registrar
	regCfg := registrar.NewConfig()
	regCfg.Logger = logger
	if avahi, err := registrar.New(regCfg, conn); err != nil {
		logger.Warn("pal: mDNS registrar unavailable", "error", dcerr.Unsupportedf("avahi registrar: %v", err))
	} else {
		reg = avahi
	}

	discCfg := discovery.NewConfig()
	discCfg.Logger = logger
	discCfg.SSDP.Logger = logger
	p.discoveryMgr = discovery.New(discCfg, reg)

	powerCfg := power.NewConfig()
	powerCfg.Logger = logger
	p.powerMgr = power.New(powerCfg, conn)

	return p
}

// DispatchMain runs body until it returns or the process receives an
// interrupt/terminate signal, whichever comes first. Linux has nothing
// resembling the Windows SCM, so there is no dispatcher indirection: the
// body always runs directly in the calling goroutine.
func DispatchMain(logger dlog.Logger, body Body) error {
	p := New(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdown := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(shutdown)
	}()

	return body(ctx, p, shutdown)
}
