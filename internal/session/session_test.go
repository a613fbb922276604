package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardExclusive(t *testing.T) {
	g := &Guard{}

	release, err := g.TryAcquire("calibration")
	require.NoError(t, err)
	assert.Equal(t, "calibration", g.Owner())

	_, err = g.TryAcquire("execution")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBusy))
	assert.Contains(t, err.Error(), "calibration")

	release()
	release() // повторный вызов безопасен
	assert.Equal(t, "", g.Owner())

	release2, err := g.TryAcquire("execution")
	require.NoError(t, err)
	release2()
}
