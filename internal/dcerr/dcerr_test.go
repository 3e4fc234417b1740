package dcerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		err := New(Io, errors.New("disk full"))
		assert.Equal(t, "io: disk full", err.Error())
	})

	t.Run("without cause", func(t *testing.T) {
		err := New(Unsupported, nil)
		assert.Equal(t, "unsupported", err.Error())
	})
}

func TestErrorIsMatchesByKind(t *testing.T) {
	a := New(PlatformBusTimeout, errors.New("one"))
	b := New(PlatformBusTimeout, errors.New("two"))
	c := New(PlatformBus, errors.New("three"))

	require.True(t, errors.Is(a, b))
	require.False(t, errors.Is(a, c))
}

func TestNewWin32CarriesCode(t *testing.T) {
	err := NewWin32(5, errors.New("access denied"))
	assert.Equal(t, PlatformWin32, err.Kind)
	assert.EqualValues(t, 5, err.Code)
}
