//go:build !windows

// SPDX-License-Identifier: GPL-3.0-or-later

package winsvc

// DetectEnvironment always reports EnvNone off Windows: there is no SCM
// to dispatch to.
func DetectEnvironment() Environment {
	return EnvNone
}

// Dispatch is never reachable off Windows (the PAL's Linux composition
// runs body directly); it exists so code shared across build tags still
// type-checks.
func Dispatch(body Body) error {
	return body(nil, nil, NoopDispatcher{})
}
