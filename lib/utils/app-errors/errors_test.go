package apperrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	t.Run("sentinels match by kind", func(t *testing.T) {
		err := Forbidden("only %s may review", "talent")
		require.True(t, errors.Is(err, ErrForbidden))
		require.False(t, errors.Is(err, ErrConflict))
		require.Equal(t, "only talent may review", PublicMessage(err))
	})
	t.Run("wrapped errors keep kind", func(t *testing.T) {
		err := errors.Wrap(Conflict(StageMessage), "review")
		kind, ok := KindOf(err)
		require.True(t, ok)
		require.Equal(t, KindConflict, kind)
		require.Equal(t, StageMessage, PublicMessage(err))
	})
	t.Run("unavailable hides cause", func(t *testing.T) {
		err := Unavailable(errors.New("dial tcp: refused"), "list applications")
		require.True(t, errors.Is(err, ErrUnavailable))
		require.Equal(t, "service temporarily unavailable", PublicMessage(err))
		require.Contains(t, err.Error(), "dial tcp")
	})
	t.Run("plain errors are internal", func(t *testing.T) {
		_, ok := KindOf(errors.New("boom"))
		require.False(t, ok)
		require.Equal(t, "internal error", PublicMessage(errors.New("boom")))
	})
}
