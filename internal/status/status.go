// SPDX-License-Identifier: GPL-3.0-or-later

// Package status implements the status manager (component H):
// translates {Starting, Running, Stopping, Stopped, PlatformError,
// ApplicationError} into the platform service state. Linux is a no-op;
// Windows delegates to the service dispatcher (component I).
package status

import (
	"context"

	"github.com/Janrupf/dragon-claw/internal/model"
)

// Manager reports an [model.AppStatus] transition to the platform.
// Failure to report is logged and swallowed by every implementation:
// the process is already going down, or not running under anything
// that cares.
type Manager interface {
	SetStatus(ctx context.Context, status model.AppStatus)
}
