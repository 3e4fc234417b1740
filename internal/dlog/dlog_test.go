package dlog

import "testing"

func TestDefaultDoesNotPanic(t *testing.T) {
	l := Default()
	l.Debug("debug", "k", "v")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")
}
