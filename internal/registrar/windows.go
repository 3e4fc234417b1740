//go:build windows

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/pal/windows/mod.rs
//   (advertise_service: two-pass GetComputerNameExW, DNS_SERVICE_INSTANCE,
//    DnsServiceRegister + completion callback delivered via a one-shot channel)
//

package registrar

import (
	"context"
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Janrupf/dragon-claw/internal/dcerr"
	"github.com/Janrupf/dragon-claw/internal/model"
)

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")
	moddnsapi   = windows.NewLazySystemDLL("dnsapi.dll")

	procGetComputerNameExW = modkernel32.NewProc("GetComputerNameExW")
	procDnsServiceRegister = moddnsapi.NewProc("DnsServiceRegister")
	procDnsServiceDeRegister = moddnsapi.NewProc("DnsServiceDeRegister")
)

const computerNameDNSHostname = 1 // ComputerNameDnsHostname
const dnsRequestPending = 9506    // DNS_REQUEST_PENDING

// WindowsRegistrar registers a DNS-SD service instance through the Win32
// DNS Service API.
type WindowsRegistrar struct {
	cfg      *Config
	hostName string

	mu        sync.Mutex
	instance  uintptr // *DNS_SERVICE_INSTANCE of the live registration, 0 if none
}

var _ Registrar = (*WindowsRegistrar)(nil)

// New resolves the computer's DNS host name via the two-pass
// GetComputerNameExW probe, falling back to [FallbackName] on failure.
func New(cfg *Config) (*WindowsRegistrar, error) {
	name, err := computerDNSHostName()
	if err != nil {
		cfg.Logger.Warn("registrar: GetComputerNameExW failed, falling back", "error", err)
		name = FallbackName
	}
	return &WindowsRegistrar{cfg: cfg, hostName: name}, nil
}

func computerDNSHostName() (string, error) {
	var size uint32
	r1, _, err := procGetComputerNameExW.Call(
		uintptr(computerNameDNSHostname), 0, uintptr(unsafe.Pointer(&size)))
	if r1 != 0 {
		return "", fmt.Errorf("registrar: unexpected success on size probe")
	}
	if err != windows.ERROR_MORE_DATA && size == 0 {
		return "", err
	}

	// Reserve six extra UTF-16 code units (the length of ".local"),
	// mirroring the original buffer sizing; Register builds the full
	// instance name as a new string.
	buf := make([]uint16, size+6)
	r1, _, err = procGetComputerNameExW.Call(
		uintptr(computerNameDNSHostname),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&size)))
	if r1 == 0 {
		return "", err
	}
	return windows.UTF16ToString(buf[:size]), nil
}

// Register submits a DNS service instance for "<hostname>._dragon-claw._tcp.local"
// and waits for the platform completion callback to deliver the final
// status over a one-shot channel. The submit call is expected to return
// DNS_REQUEST_PENDING; any other immediate return is a failure.
func (r *WindowsRegistrar) Register(ctx context.Context, endpoint model.Endpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, BusTimeout)
	defer cancel()

	instanceName := fmt.Sprintf("%s.%s.local", r.hostName, ServiceType)
	instance, err := newDNSServiceInstance(instanceName, endpoint)
	if err != nil {
		return dcerr.New(dcerr.Io, err)
	}

	done := make(chan error, 1)
	handle := registerPendingCallback(done)
	defer unregisterPendingCallback(handle)

	ret, _, _ := procDnsServiceRegister.Call(
		uintptr(unsafe.Pointer(instance)),
		dnsServiceRegisterCallback,
		handle,
	)
	if ret != dnsRequestPending {
		return dcerr.NewWin32(uint32(ret), fmt.Errorf("registrar: DnsServiceRegister did not return pending"))
	}

	select {
	case err := <-done:
		if err != nil {
			return err
		}
		r.instance = uintptr(unsafe.Pointer(instance))
		return nil
	case <-ctx.Done():
		return dcerr.New(dcerr.PlatformBusTimeout, ctx.Err())
	}
}

// Deregister submits a symmetric deregistration request. Idempotent.
func (r *WindowsRegistrar) Deregister(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.instance == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, BusTimeout)
	defer cancel()

	done := make(chan error, 1)
	handle := registerPendingCallback(done)
	defer unregisterPendingCallback(handle)

	ret, _, _ := procDnsServiceDeRegister.Call(r.instance, dnsServiceRegisterCallback, handle)
	if ret != dnsRequestPending {
		return dcerr.NewWin32(uint32(ret), fmt.Errorf("registrar: DnsServiceDeRegister did not return pending"))
	}

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = dcerr.New(dcerr.PlatformBusTimeout, ctx.Err())
	}
	r.instance = 0
	return err
}

// Close frees the instance pointer if a registration is still live.
func (r *WindowsRegistrar) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instance = 0
	return nil
}

// pendingCallbacks bridges the platform-owned completion thread back to
// the caller's one-shot channel. DnsServiceRegister invokes its callback
// on a platform thread with (status, context-pointer, unused); the
// context pointer is the handle minted below, looked up under pendingMu
// so a late callback (after the registrar gave up waiting) cannot
// dangle into a closed channel.
var (
	pendingMu        sync.Mutex
	pendingCallbacks = map[uintptr]chan error{}
	nextHandle       uintptr

	dnsServiceRegisterCallback = syscall.NewCallback(dnsServiceRegisterCompletion)
)

func dnsServiceRegisterCompletion(status uintptr, context uintptr, _ uintptr) uintptr {
	pendingMu.Lock()
	done, ok := pendingCallbacks[context]
	delete(pendingCallbacks, context)
	pendingMu.Unlock()
	if !ok {
		return 0
	}
	if status != 0 {
		done <- dcerr.NewWin32(uint32(status), fmt.Errorf("registrar: dns service registration failed"))
	} else {
		done <- nil
	}
	return 0
}

func registerPendingCallback(done chan error) uintptr {
	pendingMu.Lock()
	defer pendingMu.Unlock()
	nextHandle++
	h := nextHandle
	pendingCallbacks[h] = done
	return h
}

func unregisterPendingCallback(h uintptr) {
	pendingMu.Lock()
	defer pendingMu.Unlock()
	delete(pendingCallbacks, h)
}

// dnsServiceInstance marshals the minimal DNS_SERVICE_INSTANCE fields
// this registrar needs (name and port; address fields are left nil so
// the DNS service resolves the host's own addresses).
type dnsServiceInstance struct {
	name *uint16
	ip4  uintptr
	ip6  uintptr
	port uint16
	_    [3]uint16 // padding to match DNS_SERVICE_INSTANCE layout
}

func newDNSServiceInstance(name string, endpoint model.Endpoint) (*dnsServiceInstance, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, err
	}
	return &dnsServiceInstance{name: p, port: endpoint.Port}, nil
}
