//go:build windows

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/pal/windows/power.rs
//   (EFI_GLOBAL_VARIABLE GUID, OsIndicationsSupported/OsIndications,
//    EFI_OS_INDICATIONS_BOOT_TO_FW_UI=0x1, InitiateSystemShutdownExW,
//    SetSuspendState, get_supported_power_actions privilege gating)
//

package power

import (
	"context"
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Janrupf/dragon-claw/internal/dcerr"
	"github.com/Janrupf/dragon-claw/internal/model"
)

var (
	modadvapi32  = windows.NewLazySystemDLL("advapi32.dll")
	modpowrprof  = windows.NewLazySystemDLL("powrprof.dll")
	modkernel32w = windows.NewLazySystemDLL("kernel32.dll")

	procInitiateSystemShutdownExW        = modadvapi32.NewProc("InitiateSystemShutdownExW")
	procSetSuspendState                  = modpowrprof.NewProc("SetSuspendState")
	procGetFirmwareEnvironmentVariableW  = modkernel32w.NewProc("GetFirmwareEnvironmentVariableW")
	procSetFirmwareEnvironmentVariableExW = modkernel32w.NewProc("SetFirmwareEnvironmentVariableExW")
	procGetFirmwareType                  = modkernel32w.NewProc("GetFirmwareType")
)

// efiGlobalVariableGUID is {8BE4DF61-93CA-11D2-AA0D-00E098032B8C}.
const efiGlobalVariableGUID = "{8be4df61-93ca-11d2-aa0d-00e098032b8c}"

const (
	osIndicationsSupportedVar = "OsIndicationsSupported"
	osIndicationsVar          = "OsIndications"
	bootToFwUIBit             = 0x1

	efiVariableNonVolatile  = 0x1
	efiVariableBootService  = 0x2
	efiVariableRuntime      = 0x4

	firmwareTypeUEFI = 2

	shtdnReasonMajorOther = 0x00000000
	shtdnReasonMinorOther = 0x00000000
	shtdnReasonFlagPlanned = 0x80000000
)

// WindowsManager executes power actions through Win32 shutdown/suspend
// APIs and EFI firmware variables, gated by the privileges the PAL
// acquired at startup.
type WindowsManager struct {
	cfg                           *Config
	hasShutdownPrivilege          bool
	hasSystemEnvironmentPrivilege bool
}

var _ Manager = (*WindowsManager)(nil)

// New returns a [*WindowsManager]. Privilege flags are determined once
// by the PAL at process startup (acquiring a privilege is a one-time,
// process-wide operation) and passed in here.
func New(cfg *Config, hasShutdownPrivilege, hasSystemEnvironmentPrivilege bool) *WindowsManager {
	return &WindowsManager{
		cfg:                           cfg,
		hasShutdownPrivilege:          hasShutdownPrivilege,
		hasSystemEnvironmentPrivilege: hasSystemEnvironmentPrivilege,
	}
}

// Supported reports {PowerOff, Reboot, Suspend, Hibernate} when the
// shutdown privilege was acquired, plus RebootToFirmware when the
// system-environment privilege was also acquired and the firmware is
// UEFI with the boot-to-firmware-UI indication bit set.
func (m *WindowsManager) Supported(ctx context.Context) ([]model.PowerAction, error) {
	if !m.hasShutdownPrivilege {
		return nil, nil
	}
	actions := []model.PowerAction{model.PowerOff, model.Reboot, model.Suspend, model.Hibernate}
	if m.canRebootToFirmware() {
		actions = append(actions, model.RebootToFirmware)
	}
	return actions, nil
}

func (m *WindowsManager) canRebootToFirmware() bool {
	if !m.hasSystemEnvironmentPrivilege {
		return false
	}
	firmwareType, _, _ := procGetFirmwareType.Call()
	if firmwareType != firmwareTypeUEFI {
		return false
	}
	supported, err := readEFIVariableBits(osIndicationsSupportedVar)
	if err != nil {
		return false
	}
	return supported&bootToFwUIBit != 0
}

// Perform schedules action after [ExecuteDelay].
func (m *WindowsManager) Perform(ctx context.Context, action model.PowerAction) error {
	switch action {
	case model.PowerOff:
		return m.scheduled(func() error { return shutdown(false) })
	case model.Reboot:
		return m.scheduled(func() error { return shutdown(true) })
	case model.RebootToFirmware:
		return m.scheduled(func() error {
			if err := setBootToFirmwareUIBit(); err != nil {
				return err
			}
			return shutdown(true)
		})
	case model.Suspend:
		return m.scheduled(func() error { return suspend(false) })
	case model.Hibernate:
		return m.scheduled(func() error { return suspend(true) })
	default:
		// HybridSuspend, Lock, and LogOut have no Win32 equivalent wired
		// here: the original falls through to Unsupported for every
		// action outside the switch above.
		return dcerr.Unsupportedf("power: %s is not supported on windows", action)
	}
}

func (m *WindowsManager) scheduled(fn func() error) error {
	time.AfterFunc(ExecuteDelay, func() {
		if err := fn(); err != nil {
			m.cfg.Logger.Warn("power: scheduled action failed", "error", err)
		}
	})
	return nil
}

func shutdown(reboot bool) error {
	var rebootAfterShutdown uintptr
	if reboot {
		rebootAfterShutdown = 1
	}
	ret, _, err := procInitiateSystemShutdownExW.Call(
		0, 0, 0, 1, rebootAfterShutdown,
		shtdnReasonMajorOther|shtdnReasonMinorOther|shtdnReasonFlagPlanned,
	)
	if ret == 0 {
		return dcerr.NewWin32(uint32(windows.GetLastError()), err)
	}
	return nil
}

func suspend(hibernate bool) error {
	var h uintptr
	if hibernate {
		h = 1
	}
	ret, _, err := procSetSuspendState.Call(h, 0, 0)
	if ret == 0 {
		return dcerr.NewWin32(uint32(windows.GetLastError()), err)
	}
	return nil
}

func readEFIVariableBits(name string) (uint32, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	guidPtr, err := windows.UTF16PtrFromString(efiGlobalVariableGUID)
	if err != nil {
		return 0, err
	}
	var buf [4]byte
	ret, _, err := procGetFirmwareEnvironmentVariableW.Call(
		uintptr(unsafe.Pointer(namePtr)),
		uintptr(unsafe.Pointer(guidPtr)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
	)
	if ret == 0 {
		if err == windows.ERROR_ENVVAR_NOT_FOUND {
			return 0, nil
		}
		return 0, err
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, nil
}

// setBootToFirmwareUIBit OR-sets the boot-to-firmware-UI bit in
// OsIndications, creating the variable if absent with attributes
// {NonVolatile, BootService, Runtime}.
func setBootToFirmwareUIBit() error {
	current, err := readEFIVariableBits(osIndicationsVar)
	if err != nil {
		return fmt.Errorf("power: reading OsIndications: %w", err)
	}
	updated := current | bootToFwUIBit

	namePtr, err := windows.UTF16PtrFromString(osIndicationsVar)
	if err != nil {
		return err
	}
	guidPtr, err := windows.UTF16PtrFromString(efiGlobalVariableGUID)
	if err != nil {
		return err
	}
	var buf [4]byte
	buf[0] = byte(updated)
	buf[1] = byte(updated >> 8)
	buf[2] = byte(updated >> 16)
	buf[3] = byte(updated >> 24)

	ret, _, callErr := procSetFirmwareEnvironmentVariableExW.Call(
		uintptr(unsafe.Pointer(namePtr)),
		uintptr(unsafe.Pointer(guidPtr)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		uintptr(efiVariableNonVolatile|efiVariableBootService|efiVariableRuntime),
	)
	if ret == 0 {
		return dcerr.NewWin32(uint32(windows.GetLastError()), callErr)
	}
	return nil
}
