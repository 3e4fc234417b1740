// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/main.rs (build the PAL, hand
//   control to dispatch_main, map the result to the exit codes in
//   spec.md §6: 0 clean shutdown, 1 PAL/dispatch failure, 2 application
//   failure while running)
//

// Command dragon-claw-agent is the daemon entry point: it wires the
// platform abstraction layer together and advertises the agent over
// SSDP and mDNS/DNS-SD until told to stop.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Janrupf/dragon-claw/internal/localaddr"
	"github.com/Janrupf/dragon-claw/internal/model"
	"github.com/Janrupf/dragon-claw/internal/pal"
	"github.com/Janrupf/dragon-claw/internal/rpcglue"
)

func main() {
	port := flag.Uint("port", 37121, "TCP port advertised in the SSDP LOCATION header and mDNS service record")
	name := flag.String("name", "dragon-claw-agent", "advertised service instance name")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	logger.Info("dragon-claw-agent starting", "version", rpcglue.GetAgentVersion().String())

	var appErr error
	err := pal.DispatchMain(logger, func(ctx context.Context, p *pal.PAL, shutdown <-chan struct{}) error {
		appErr = run(ctx, p, shutdown, uint16(*port), *name)
		return appErr
	})

	switch {
	case appErr != nil:
		logger.Error("dragon-claw-agent application failed", "error", appErr)
		os.Exit(2)
	case err != nil:
		logger.Error("dragon-claw-agent exited with error", "error", err)
		os.Exit(1)
	}
}

// run is the body handed to [pal.DispatchMain]: it picks an advertised
// endpoint, starts discovery, logs the power capabilities an eventual
// RPC server would report, and blocks until shutdown fires.
func run(ctx context.Context, p *pal.PAL, shutdown <-chan struct{}, port uint16, name string) error {
	p.Status().SetStatus(ctx, model.AppStatus{Kind: model.Starting})

	endpoint, err := primaryEndpoint(name, port)
	if err != nil {
		p.Status().SetStatus(ctx, model.AppStatus{Kind: model.PlatformErrorStatus, PlatformErr: err})
		return fmt.Errorf("selecting advertised endpoint: %w", err)
	}

	if err := p.Discovery().Advertise(ctx, endpoint); err != nil {
		// Both SSDP and mDNS failed: the agent still runs, just
		// undiscoverable. Not fatal, per spec.md §7.
		p.Logger.Warn("run: advertisement unsupported on this host", "error", err)
	}

	if mgr, ok := p.Power(); ok {
		actions, _ := rpcglue.GetSupportedPowerActions(ctx, mgr)
		p.Logger.Info("run: power actions available", "actions", actions)
	} else {
		p.Logger.Info("run: no power manager available on this host")
	}

	p.Status().SetStatus(ctx, model.AppStatus{Kind: model.Running})

	<-shutdown

	p.Status().SetStatus(ctx, model.AppStatus{Kind: model.Stopping})
	if err := p.Discovery().Stop(context.Background()); err != nil {
		p.Logger.Warn("run: error stopping advertisement", "error", err)
	}
	p.Status().SetStatus(ctx, model.AppStatus{Kind: model.Stopped})

	return nil
}

// primaryEndpoint picks the first non-loopback v4 address, falling back
// to the first v6 address, as the host part of the advertised endpoint.
func primaryEndpoint(name string, port uint16) (model.Endpoint, error) {
	v4, v6, err := localaddr.Enumerate()
	if err != nil {
		return model.Endpoint{}, err
	}
	switch {
	case len(v4) > 0:
		return model.Endpoint{Name: name, Addr: v4[0].Addr, Port: port}, nil
	case len(v6) > 0:
		return model.Endpoint{Name: name, Addr: v6[0].Addr, Port: port}, nil
	default:
		return model.Endpoint{}, fmt.Errorf("no non-loopback address available to advertise")
	}
}
