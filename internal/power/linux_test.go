//go:build linux

package power

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Janrupf/dragon-claw/internal/model"
)

func TestCanProbesCoverEveryProbedAction(t *testing.T) {
	want := map[model.PowerAction]bool{
		model.PowerOff:         false,
		model.Reboot:           false,
		model.Suspend:          false,
		model.Hibernate:        false,
		model.HybridSuspend:    false,
		model.RebootToFirmware: false,
	}
	for _, p := range canProbes {
		want[p.action] = true
	}
	for action, seen := range want {
		assert.True(t, seen, "power action %s has no capability probe", action)
	}
}

func TestPerformUnknownActionIsUnsupported(t *testing.T) {
	m := &LinuxManager{cfg: NewConfig()}
	err := m.Perform(nil, model.Lock)
	assert.Error(t, err)
}

// TestCanResultToErrRejectsChallenge covers the login1
// CanPowerOff=challenge scenario: a known action whose probe answers
// anything other than "yes" is refused, not attempted.
func TestCanResultToErrRejectsChallenge(t *testing.T) {
	err := canResultToErr(model.PowerOff, "CanPowerOff", "challenge")
	assert.Error(t, err)
}

func TestCanResultToErrAcceptsYes(t *testing.T) {
	err := canResultToErr(model.Reboot, "CanReboot", "yes")
	assert.NoError(t, err)
}

func TestCanResultToErrRejectsNo(t *testing.T) {
	err := canResultToErr(model.Suspend, "CanSuspend", "no")
	assert.Error(t, err)
}
