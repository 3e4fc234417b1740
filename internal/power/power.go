// SPDX-License-Identifier: GPL-3.0-or-later

// Package power implements the power manager (component G): probing and
// executing power actions ({power-off, reboot, reboot-to-firmware,
// suspend, hibernate, hybrid-suspend, lock, log-out}).
package power

import (
	"context"
	"time"

	"github.com/Janrupf/dragon-claw/internal/dlog"
	"github.com/Janrupf/dragon-claw/internal/model"
)

// ExecuteDelay is the minimum delay [Manager.Perform] schedules before
// actually executing an action, so the RPC caller can receive its
// response before the host starts going down.
const ExecuteDelay = 1 * time.Second

// Config holds power manager configuration.
type Config struct {
	Logger dlog.Logger
}

// NewConfig returns a [*Config] with sensible production defaults.
func NewConfig() *Config {
	return &Config{Logger: dlog.Default()}
}

// Manager probes supported power actions and executes them. Capabilities
// are recomputed on every [Manager.Supported] call, never cached: power
// and firmware policy can change at runtime (privilege revocation,
// firmware settings).
type Manager interface {
	Supported(ctx context.Context) ([]model.PowerAction, error)
	Perform(ctx context.Context, action model.PowerAction) error
}
