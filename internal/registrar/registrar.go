// SPDX-License-Identifier: GPL-3.0-or-later

// Package registrar implements the mDNS/DNS-SD registrar (component E):
// register(endpoint) / deregister() against the platform naming service
// (Avahi on Linux, the Win32 DNS Service API on Windows).
package registrar

import (
	"context"
	"time"

	"github.com/Janrupf/dragon-claw/internal/dlog"
	"github.com/Janrupf/dragon-claw/internal/model"
)

// ServiceType is the DNS-SD service type this agent registers.
const ServiceType = "_dragon-claw._tcp"

// FallbackName is used when host-name discovery fails entirely.
const FallbackName = "dragon-claw-agent"

// BusTimeout bounds every platform registration call. Expiry is a
// distinct error kind ([dcerr.PlatformBusTimeout]) from an ordinary bus
// error, per spec: the call is abandoned, not cancelled (best-effort).
const BusTimeout = 5 * time.Second

// Config holds registrar configuration shared by both platforms.
type Config struct {
	Logger dlog.Logger
}

// NewConfig returns a [*Config] with sensible production defaults.
func NewConfig() *Config {
	return &Config{Logger: dlog.Default()}
}

// Registrar registers and deregisters one [model.Endpoint] with the
// platform naming service. At most one registration is held at a time;
// Deregister is idempotent.
type Registrar interface {
	Register(ctx context.Context, endpoint model.Endpoint) error
	Deregister(ctx context.Context) error
	Close() error
}
