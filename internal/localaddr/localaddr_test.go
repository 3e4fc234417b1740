package localaddr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEnumerateDoesNotError assumes the host running the test has at
// least one non-loopback interface, same assumption net.Interfaces()
// itself makes of any CI sandbox.
func TestEnumerateDoesNotError(t *testing.T) {
	_, _, err := Enumerate()
	require.NoError(t, err)
}
