// SPDX-License-Identifier: GPL-3.0-or-later

package rpcglue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Janrupf/dragon-claw/internal/model"
)

type fakeManager struct {
	supported []model.PowerAction
	performErr error
}

func (f *fakeManager) Supported(ctx context.Context) ([]model.PowerAction, error) {
	return f.supported, nil
}

func (f *fakeManager) Perform(ctx context.Context, action model.PowerAction) error {
	return f.performErr
}

func TestGetSupportedPowerActionsNilManagerIsEmptyNotError(t *testing.T) {
	actions, err := GetSupportedPowerActions(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, actions)
}

func TestGetSupportedPowerActionsDelegates(t *testing.T) {
	mgr := &fakeManager{supported: []model.PowerAction{model.PowerOff, model.Suspend}}
	actions, err := GetSupportedPowerActions(context.Background(), mgr)
	require.NoError(t, err)
	assert.Equal(t, []model.PowerAction{model.PowerOff, model.Suspend}, actions)
}

func TestPerformPowerActionNilManagerIsUnimplemented(t *testing.T) {
	status, err := PerformPowerAction(context.Background(), nil, model.PowerOff)
	require.NoError(t, err)
	assert.Equal(t, Unimplemented, status)
}

func TestPerformPowerActionUnknownActionIsInvalidArgument(t *testing.T) {
	mgr := &fakeManager{}
	status, err := PerformPowerAction(context.Background(), mgr, model.PowerAction(999))
	require.NoError(t, err)
	assert.Equal(t, InvalidArgument, status)
}

func TestPerformPowerActionFailureIsInternal(t *testing.T) {
	mgr := &fakeManager{performErr: errors.New("boom")}
	status, err := PerformPowerAction(context.Background(), mgr, model.PowerOff)
	assert.Error(t, err)
	assert.Equal(t, Internal, status)
}

func TestPerformPowerActionSuccessIsOK(t *testing.T) {
	mgr := &fakeManager{}
	status, err := PerformPowerAction(context.Background(), mgr, model.Reboot)
	require.NoError(t, err)
	assert.Equal(t, OK, status)
}

func TestIsKnownPowerActionCoversEveryEnumValue(t *testing.T) {
	for _, a := range []model.PowerAction{
		model.PowerOff, model.Reboot, model.RebootToFirmware, model.Lock,
		model.LogOut, model.Suspend, model.Hibernate, model.HybridSuspend,
	} {
		assert.True(t, IsKnownPowerAction(a), a.String())
	}
	assert.False(t, IsKnownPowerAction(model.PowerAction(999)))
}

func TestGetAgentVersionParsesSemver(t *testing.T) {
	old := buildVersion
	defer func() { buildVersion = old }()

	buildVersion = "1.2.3-rc1"
	v := GetAgentVersion()
	assert.Equal(t, Version{Major: 1, Minor: 2, Patch: 3, PreRelease: "rc1"}, v)
	assert.Equal(t, "1.2.3-rc1", v.String())
}

func TestGetAgentVersionFallsBackOnMalformedBuildVersion(t *testing.T) {
	old := buildVersion
	defer func() { buildVersion = old }()

	buildVersion = "not-a-version"
	v := GetAgentVersion()
	assert.Equal(t, uint32(0), v.Major)
	assert.Equal(t, "not-a-version", v.PreRelease)
}
