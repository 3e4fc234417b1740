//go:build linux

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/pal/linux/power.rs
//   (LinuxPowerManager: get_supported_power_actions probes each CanX
//    call for "yes"; perform_power_action maps actions to login1 calls,
//    HybridSuspend fixed to call hybrid_sleep instead of hibernate per
//    the resolved source anomaly)
//

package power

import (
	"context"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/Janrupf/dragon-claw/internal/dcerr"
	"github.com/Janrupf/dragon-claw/internal/model"
)

const (
	login1BusName = "org.freedesktop.login1"
	login1Path    = "/org/freedesktop/login1"
	login1Ifc     = "org.freedesktop.login1.Manager"
)

// LinuxManager executes power actions through systemd-logind over the
// shared system D-Bus connection.
type LinuxManager struct {
	cfg  *Config
	conn *dbus.Conn
	obj  dbus.BusObject
}

var _ Manager = (*LinuxManager)(nil)

// New returns a [*LinuxManager] bound to conn, the PAL's shared
// long-lived system bus connection.
func New(cfg *Config, conn *dbus.Conn) *LinuxManager {
	return &LinuxManager{cfg: cfg, conn: conn, obj: conn.Object(login1BusName, dbus.ObjectPath(login1Path))}
}

type canProbe struct {
	action model.PowerAction
	method string
}

var canProbes = []canProbe{
	{model.PowerOff, "CanPowerOff"},
	{model.Reboot, "CanReboot"},
	{model.Suspend, "CanSuspend"},
	{model.Hibernate, "CanHibernate"},
	{model.HybridSuspend, "CanHybridSleep"},
	{model.RebootToFirmware, "CanRebootToFirmwareSetup"},
}

// Supported probes each login1 CanX call; only actions whose probe
// returns exactly "yes" are reported. Lock and LogOut have no login1
// equivalent and are never reported on Linux.
func (m *LinuxManager) Supported(ctx context.Context) ([]model.PowerAction, error) {
	var actions []model.PowerAction
	for _, probe := range canProbes {
		var result string
		if err := m.call(ctx, probe.method, nil, &result); err != nil {
			m.cfg.Logger.Warn("power: capability probe failed", "probe", probe.method, "error", err)
			continue
		}
		if result == "yes" {
			actions = append(actions, probe.action)
		}
	}
	return actions, nil
}

// Perform schedules action after [ExecuteDelay] so the RPC caller
// receives its response first. An action whose login1 CanX probe
// doesn't return "yes" is refused as unsupported rather than attempted.
func (m *LinuxManager) Perform(ctx context.Context, action model.PowerAction) error {
	if err := m.requireCan(ctx, action); err != nil {
		return err
	}
	switch action {
	case model.PowerOff:
		return m.scheduled(ctx, "PowerOff", []any{false})
	case model.Reboot:
		return m.scheduled(ctx, "Reboot", []any{false})
	case model.RebootToFirmware:
		if err := m.call(ctx, "SetRebootToFirmwareSetup", []any{true}, nil); err != nil {
			return err
		}
		return m.scheduled(ctx, "Reboot", []any{false})
	case model.Suspend:
		return m.scheduled(ctx, "Suspend", []any{false})
	case model.Hibernate:
		return m.scheduled(ctx, "Hibernate", []any{false})
	case model.HybridSuspend:
		// Resolved anomaly: call HybridSleep, not Hibernate.
		return m.scheduled(ctx, "HybridSleep", []any{false})
	default:
		return dcerr.Unsupportedf("power: %s is not supported on linux", action)
	}
}

// requireCan probes the login1 CanX call matching action and returns
// [dcerr.Unsupportedf] unless it answers exactly "yes". Unknown actions
// (no matching probe) are left to the caller's switch to reject.
func (m *LinuxManager) requireCan(ctx context.Context, action model.PowerAction) error {
	for _, probe := range canProbes {
		if probe.action != action {
			continue
		}
		var result string
		if err := m.call(ctx, probe.method, nil, &result); err != nil {
			return dcerr.Unsupportedf("power: %s capability probe failed: %v", action, err)
		}
		return canResultToErr(action, probe.method, result)
	}
	return nil
}

// canResultToErr maps a login1 CanX result to the error [requireCan]
// should return: nil when it's exactly "yes", [dcerr.Unsupportedf]
// otherwise (covers "no", "challenge", and any other value login1
// defines).
func canResultToErr(action model.PowerAction, method, result string) error {
	if result == "yes" {
		return nil
	}
	return dcerr.Unsupportedf("power: %s is not supported (login1 %s=%s)", action, method, result)
}

func (m *LinuxManager) scheduled(ctx context.Context, method string, args []any) error {
	time.AfterFunc(ExecuteDelay, func() {
		if err := m.call(context.Background(), method, args, nil); err != nil {
			m.cfg.Logger.Warn("power: action failed", "method", method, "error", err)
		}
	})
	return nil
}

func (m *LinuxManager) call(ctx context.Context, method string, args []any, ret any) error {
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	call := m.obj.CallWithContext(cctx, login1Ifc+"."+method, 0, args...)
	if call.Err != nil {
		if cctx.Err() != nil {
			return dcerr.New(dcerr.PlatformBusTimeout, call.Err)
		}
		return dcerr.New(dcerr.PlatformBus, call.Err)
	}
	if ret != nil {
		return call.Store(ret)
	}
	return nil
}
