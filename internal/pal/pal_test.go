// SPDX-License-Identifier: GPL-3.0-or-later

package pal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Janrupf/dragon-claw/internal/discovery"
	"github.com/Janrupf/dragon-claw/internal/model"
)

type fakePowerManager struct{}

func (fakePowerManager) Supported(ctx context.Context) ([]model.PowerAction, error) { return nil, nil }
func (fakePowerManager) Perform(ctx context.Context, action model.PowerAction) error { return nil }

type fakeStatusManager struct {
	last model.AppStatusKind
}

func (f *fakeStatusManager) SetStatus(ctx context.Context, status model.AppStatus) {
	f.last = status.Kind
}

func TestPALAccessorsReflectCapabilities(t *testing.T) {
	st := &fakeStatusManager{}
	disc := discovery.New(discovery.NewConfig(), nil)

	p := &PAL{
		discoveryMgr: disc,
		powerMgr:     fakePowerManager{},
		statusMgr:    st,
	}

	assert.Same(t, disc, p.Discovery())

	mgr, ok := p.Power()
	assert.True(t, ok)
	assert.NotNil(t, mgr)

	p.Status().SetStatus(context.Background(), model.AppStatus{Kind: model.Running})
	assert.Equal(t, model.Running, st.last)
}

func TestPALPowerUnavailableWhenNil(t *testing.T) {
	p := &PAL{discoveryMgr: discovery.New(discovery.NewConfig(), nil)}

	mgr, ok := p.Power()
	assert.False(t, ok)
	assert.Nil(t, mgr)
}
