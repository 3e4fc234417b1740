//go:build linux

package status

import (
	"context"
	"testing"

	"github.com/Janrupf/dragon-claw/internal/model"
)

func TestLinuxManagerSetStatusDoesNotPanic(t *testing.T) {
	m := New()
	for _, kind := range []model.AppStatusKind{
		model.Starting, model.Running, model.Stopping, model.Stopped,
	} {
		m.SetStatus(context.Background(), model.AppStatus{Kind: kind})
	}
}
