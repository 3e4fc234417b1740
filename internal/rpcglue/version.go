// SPDX-License-Identifier: GPL-3.0-or-later

package rpcglue

import (
	"fmt"
	"strconv"
	"strings"
)

// buildVersion is overridden at link time via
// -ldflags "-X .../rpcglue.buildVersion=1.2.3-rc1"; it defaults to a
// development placeholder so the binary still runs unreleased.
var buildVersion = "0.0.0-dev"

// GetAgentVersion parses [buildVersion] into its semver components.
// A version string that fails to parse collapses to 0.0.0 with the
// whole original string carried as PreRelease, so a bad build flag is
// visible rather than silently dropped.
func GetAgentVersion() Version {
	core, pre, _ := strings.Cut(buildVersion, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version{PreRelease: buildVersion}
	}
	major, err1 := strconv.ParseUint(parts[0], 10, 32)
	minor, err2 := strconv.ParseUint(parts[1], 10, 32)
	patch, err3 := strconv.ParseUint(parts[2], 10, 32)
	if err1 != nil || err2 != nil || err3 != nil {
		return Version{PreRelease: buildVersion}
	}
	return Version{Major: uint32(major), Minor: uint32(minor), Patch: uint32(patch), PreRelease: pre}
}

func (v Version) String() string {
	if v.PreRelease == "" {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d.%d-%s", v.Major, v.Minor, v.Patch, v.PreRelease)
}
