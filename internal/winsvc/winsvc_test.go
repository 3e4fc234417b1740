package winsvc

import "testing"

func TestNoopDispatcherDoesNotPanic(t *testing.T) {
	var d Dispatcher = NoopDispatcher{}
	d.ReportStartPending()
	d.ReportRunning()
	d.ReportStopPending()
	d.ReportStoppedOK()
	d.ReportStoppedWin32(5)
	d.ReportStoppedApplicationErr(2)
}

func TestDetectEnvironmentReturnsAValidValue(t *testing.T) {
	env := DetectEnvironment()
	if env != EnvNone && env != EnvUser && env != EnvSystem {
		t.Fatalf("unexpected environment value: %v", env)
	}
}
