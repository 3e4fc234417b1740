//go:build linux

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/pal/linux/status.rs
//   (LinuxStatusManager::set_status is a no-op)
//

package status

import (
	"context"

	"github.com/Janrupf/dragon-claw/internal/model"
)

// LinuxManager is a zero-size no-op status manager: Linux has nothing
// equivalent to the SCM to report lifecycle transitions to.
type LinuxManager struct{}

var _ Manager = LinuxManager{}

// New returns the Linux no-op status manager.
func New() LinuxManager {
	return LinuxManager{}
}

// SetStatus does nothing.
func (LinuxManager) SetStatus(ctx context.Context, status model.AppStatus) {}
