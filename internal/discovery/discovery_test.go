package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Janrupf/dragon-claw/internal/model"
	"github.com/Janrupf/dragon-claw/internal/ssdp"
)

func failingSSDPSetup(cfg *ssdp.Config, endpoint model.Endpoint) (*ssdp.Session, error) {
	return nil, errors.New("no multicast-capable interface in test sandbox")
}

type fakeRegistrar struct {
	registerErr     error
	deregisterErr   error
	registered      bool
	deregistrations int
}

func (f *fakeRegistrar) Register(ctx context.Context, endpoint model.Endpoint) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = true
	return nil
}

func (f *fakeRegistrar) Deregister(ctx context.Context) error {
	f.registered = false
	f.deregistrations++
	return f.deregisterErr
}

func (f *fakeRegistrar) Close() error { return nil }

func TestAdvertiseSucceedsWhenMDNSWorksEvenIfSSDPFails(t *testing.T) {
	reg := &fakeRegistrar{}
	cfg := NewConfig()
	cfg.SetupSSDP = failingSSDPSetup
	m := New(cfg, reg)

	err := m.Advertise(context.Background(), model.Endpoint{Name: "test", Port: 37121})
	require.NoError(t, err)
	assert.True(t, reg.registered)
}

func TestAdvertiseFailsWhenBothArmsFail(t *testing.T) {
	cfg := NewConfig()
	cfg.SetupSSDP = failingSSDPSetup
	m := New(cfg, nil)

	err := m.Advertise(context.Background(), model.Endpoint{Name: "test", Port: 37121})
	require.Error(t, err)
}

func TestSecondAdvertiseDeregistersFirst(t *testing.T) {
	reg := &fakeRegistrar{}
	cfg := NewConfig()
	cfg.SetupSSDP = failingSSDPSetup
	m := New(cfg, reg)

	require.NoError(t, m.Advertise(context.Background(), model.Endpoint{Name: "a", Port: 1}))
	require.True(t, reg.registered)
	require.Equal(t, 0, reg.deregistrations)

	require.NoError(t, m.Advertise(context.Background(), model.Endpoint{Name: "b", Port: 2}))
	// the second Advertise deregisters-then-registers, so by the time it
	// returns the slot holds only the new registration.
	require.Equal(t, 1, reg.deregistrations)
	require.True(t, reg.registered)
}

func TestStopIsIdempotent(t *testing.T) {
	m := New(NewConfig(), &fakeRegistrar{})
	require.NoError(t, m.Stop(context.Background()))
	require.NoError(t, m.Stop(context.Background()))
}
