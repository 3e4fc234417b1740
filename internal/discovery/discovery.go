// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/pal/linux/discovery.rs
//   (DiscoveryManager::advertise_service / stop_advertising_service:
//    tokio::join! of the two arms, OR-success, both stops attempted
//    even if one fails)
//

// Package discovery implements the discovery manager (component F):
// composes the SSDP engine (D) and the mDNS/DNS-SD registrar (E) behind
// a single advertise/stop lifecycle with partial-failure tolerance.
package discovery

import (
	"context"
	"sync"

	"github.com/bassosimone/runtimex"
	"golang.org/x/sync/errgroup"

	"github.com/Janrupf/dragon-claw/internal/corr"
	"github.com/Janrupf/dragon-claw/internal/dcerr"
	"github.com/Janrupf/dragon-claw/internal/dlog"
	"github.com/Janrupf/dragon-claw/internal/model"
	"github.com/Janrupf/dragon-claw/internal/registrar"
	"github.com/Janrupf/dragon-claw/internal/ssdp"
)

// Config holds discovery manager configuration.
type Config struct {
	Logger dlog.Logger
	SSDP   *ssdp.Config

	// SetupSSDP constructs the SSDP session. Set by [NewConfig] to
	// [ssdp.Setup]; overridden in tests to avoid depending on the host's
	// actual network interfaces.
	SetupSSDP func(cfg *ssdp.Config, endpoint model.Endpoint) (*ssdp.Session, error)
}

// NewConfig returns a [*Config] with sensible production defaults.
func NewConfig() *Config {
	return &Config{Logger: dlog.Default(), SSDP: ssdp.NewConfig(), SetupSSDP: ssdp.Setup}
}

// Manager composes the SSDP engine and the mDNS/DNS-SD registrar. At
// most one registration of each kind is held at a time, guarded by mu
// (the "registration slot" of spec §3): a second Advertise call first
// takes the old slot, stops it synchronously, and only then advertises
// the new endpoint.
type Manager struct {
	cfg *Config
	reg registrar.Registrar // nil if the platform registrar is unavailable

	mu      sync.Mutex
	session *ssdp.Session
	mdnsUp  bool
	span    string // correlation id of the live advertise/stop cycle
}

// New constructs a discovery manager. reg may be nil when the platform
// registrar could not be constructed (e.g. no Avahi on the system bus);
// the SSDP arm still operates independently in that case.
func New(cfg *Config, reg registrar.Registrar) *Manager {
	return &Manager{cfg: cfg, reg: reg}
}

// Advertise launches the SSDP and mDNS arms in parallel. Success is
// disjunctive: either arm succeeding yields a nil error, with a warning
// logged for the failing arm. Both arms failing returns an
// [dcerr.Unsupported] error.
func (m *Manager) Advertise(ctx context.Context, endpoint model.Endpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked(ctx)

	// stopLocked must have fully released the registration slot before a
	// new one is taken: both arms are exclusive to one live advertisement.
	runtimex.Assert(m.session == nil)
	runtimex.Assert(!m.mdnsUp)

	span := corr.NewSpanID()
	m.span = span
	m.cfg.Logger.Info("discovery: advertise starting", "span", span, "endpoint", endpoint.Addr.String())

	var ssdpErr, mdnsErr error
	var newSession *ssdp.Session

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := m.cfg.SetupSSDP(m.cfg.SSDP, endpoint)
		if err != nil {
			ssdpErr = err
			return nil // don't cancel the sibling arm on this arm's failure
		}
		newSession = s
		return nil
	})
	g.Go(func() error {
		if m.reg == nil {
			mdnsErr = dcerr.Unsupportedf("discovery: no mdns registrar available")
			return nil
		}
		if err := m.reg.Register(gctx, endpoint); err != nil {
			mdnsErr = err
			return nil
		}
		return nil
	})
	_ = g.Wait()

	if ssdpErr != nil {
		m.cfg.Logger.Warn("discovery: ssdp advertise failed", "span", span, "error", ssdpErr)
	} else {
		m.session = newSession
	}
	if mdnsErr != nil {
		m.cfg.Logger.Warn("discovery: mdns advertise failed", "span", span, "error", mdnsErr)
	} else {
		m.mdnsUp = true
	}

	if ssdpErr != nil && mdnsErr != nil {
		return dcerr.Unsupportedf("discovery: both ssdp and mdns advertisement failed")
	}
	return nil
}

// Stop deregisters both arms, attempting each even if the other fails,
// and returns the first error encountered (if any). Idempotent.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked(ctx)
}

func (m *Manager) stopLocked(ctx context.Context) error {
	if m.session == nil && !m.mdnsUp {
		return nil
	}

	span := m.span
	var first error

	if m.session != nil {
		m.session.Stop()
		m.session = nil
		m.cfg.Logger.Info("discovery: ssdp stopped", "span", span)
	}

	if m.mdnsUp && m.reg != nil {
		if err := m.reg.Deregister(ctx); err != nil {
			first = err
			m.cfg.Logger.Warn("discovery: mdns deregister failed", "span", span, "error", err)
		}
		m.mdnsUp = false
	}

	return first
}
