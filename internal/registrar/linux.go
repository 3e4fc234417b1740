//go:build linux

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/pal/linux/avahi.rs,
//   original_source/agent/src/pal/linux/discovery.rs (advertise_with_avahi),
//   original_source/agent/src/dbus/mod.rs (DBUS_TIMEOUT / dbus_call! wrapper)
//

package registrar

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/Janrupf/dragon-claw/internal/dcerr"
	"github.com/Janrupf/dragon-claw/internal/model"
)

const (
	avahiBusName    = "org.freedesktop.Avahi"
	avahiServerPath = "/"
	avahiServerIfc  = "org.freedesktop.Avahi.Server2"
	avahiGroupIfc   = "org.freedesktop.Avahi.EntryGroup"

	avahiIfUnspec = int32(-1)
	avahiProtoV4  = int32(0)
	avahiProtoV6  = int32(1)
)

// AvahiRegistrar registers a DNS-SD service with the system's running
// avahi-daemon over the shared system D-Bus connection.
type AvahiRegistrar struct {
	cfg  *Config
	conn *dbus.Conn

	hostName string

	mu    sync.Mutex
	group dbus.BusObject // non-nil while a registration is live
}

var _ Registrar = (*AvahiRegistrar)(nil)

// New checks that avahi-daemon answers on conn (the PAL's shared system
// D-Bus connection) and resolves the advertised host name, falling back
// to os.Hostname and then to [FallbackName].
func New(cfg *Config, conn *dbus.Conn) (*AvahiRegistrar, error) {
	server := conn.Object(avahiBusName, dbus.ObjectPath(avahiServerPath))

	var version string
	if err := callWithTimeout(server, avahiServerIfc+".GetVersionString", nil, &version); err != nil {
		return nil, err
	}
	cfg.Logger.Info("registrar: connected to avahi", "version", version)

	var hostName string
	if err := callWithTimeout(server, avahiServerIfc+".GetHostName", nil, &hostName); err != nil {
		cfg.Logger.Warn("registrar: avahi GetHostName failed, falling back", "error", err)
		if h, err := os.Hostname(); err == nil {
			hostName = h
		} else {
			hostName = FallbackName
		}
	}

	return &AvahiRegistrar{cfg: cfg, conn: conn, hostName: hostName}, nil
}

// Register creates a new entry group, adds the service, and commits it.
// A second Register call must Deregister the first (the discovery
// manager above this package enforces that serialization via its
// registration slot).
func (r *AvahiRegistrar) Register(ctx context.Context, endpoint model.Endpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	server := r.conn.Object(avahiBusName, dbus.ObjectPath(avahiServerPath))
	var groupPath dbus.ObjectPath
	if err := callWithTimeout(server, avahiServerIfc+".EntryGroupNew", nil, &groupPath); err != nil {
		return err
	}
	group := r.conn.Object(avahiBusName, groupPath)

	protocol := avahiProtoV4
	if endpoint.Addr.Family == model.FamilyV6 {
		protocol = avahiProtoV6
	}

	args := []any{
		avahiIfUnspec, protocol, uint32(0),
		r.hostName, ServiceType, "", "", uint16(endpoint.Port), [][]byte{},
	}
	if err := callWithTimeout(group, avahiGroupIfc+".AddService", args, nil); err != nil {
		return err
	}
	if err := callWithTimeout(group, avahiGroupIfc+".Commit", nil, nil); err != nil {
		return err
	}

	r.group = group
	return nil
}

// Deregister frees the held entry group, if any. Idempotent.
func (r *AvahiRegistrar) Deregister(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.group == nil {
		return nil
	}
	err := callWithTimeout(r.group, avahiGroupIfc+".Free", nil, nil)
	r.group = nil
	return err
}

// Close is a no-op: the D-Bus connection is owned and shared by the PAL,
// not by this registrar.
func (r *AvahiRegistrar) Close() error {
	return nil
}

// callWithTimeout wraps a D-Bus call with [BusTimeout], mapping expiry to
// a distinct [dcerr.PlatformBusTimeout] error rather than
// [dcerr.PlatformBus], matching the original dbus_call! macro.
func callWithTimeout(obj dbus.BusObject, method string, args []any, ret any) error {
	ctx, cancel := context.WithTimeout(context.Background(), BusTimeout)
	defer cancel()

	call := obj.CallWithContext(ctx, method, 0, args...)
	if call.Err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return dcerr.New(dcerr.PlatformBusTimeout, call.Err)
		}
		return dcerr.New(dcerr.PlatformBus, call.Err)
	}
	if ret != nil {
		if err := call.Store(ret); err != nil {
			return dcerr.New(dcerr.PlatformBus, err)
		}
	}
	return nil
}
