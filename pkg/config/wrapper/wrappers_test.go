package wrapper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifiokjr/steel/pkg/config/memory"
)

func TestBoolConfig(t *testing.T) {
	override := memory.NewConfig(nil)
	c := NewBoolConfig(override, true)

	val, err := c.GetSafe(context.Background())
	require.NoError(t, err)
	assert.True(t, val)

	override.SetValue(false)
	val, err = c.GetSafe(context.Background())
	require.NoError(t, err)
	assert.False(t, val)

	override.SetValue([]byte("true"))
	val, err = c.GetSafe(context.Background())
	require.NoError(t, err)
	assert.True(t, val)

	override.SetValue([]byte("not a bool"))
	_, err = c.GetSafe(context.Background())
	assert.Error(t, err)

	// last known good value is retained across conversion failures
	assert.True(t, c.Get(context.Background()))

	override.SetValue(42)
	_, err = c.GetSafe(context.Background())
	assert.Equal(t, ErrUnsuportedConversion, err)
}
