package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type store struct{}

func TestCheckInit(t *testing.T) {
	var typedNil *store
	require.NotPanics(t, func() { CheckInit("store", &store{}, "name", "x") })
	require.PanicsWithValue(t, "store dependency not initialized", func() { CheckInit("store", nil) })
	require.PanicsWithValue(t, "store dependency not initialized", func() { CheckInit("store", typedNil) })
	require.Panics(t, func() { CheckInit("store") })
	require.Panics(t, func() { CheckInit(1, &store{}) })
}
