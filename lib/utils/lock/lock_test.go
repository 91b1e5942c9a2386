package lock

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	ctx := context.Background()
	t.Run("runs and releases", func(t *testing.T) {
		ok, err := WithDelay(ctx, "a", time.Second, func() error { return nil })
		require.True(t, ok)
		require.NoError(t, err)
		ok, err = WithDelay(ctx, "a", time.Second, func() error { return errors.New("boom") })
		require.True(t, ok)
		require.EqualError(t, err, "boom")
	})
	t.Run("busy key times out", func(t *testing.T) {
		held := make(chan struct{})
		release := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = WithDelay(ctx, "b", time.Second, func() error {
				close(held)
				<-release
				return nil
			})
		}()
		<-held
		ok, err := WithDelay(ctx, "b", 120*time.Millisecond, func() error {
			t.Fatal("must not run")
			return nil
		})
		require.False(t, ok)
		require.NoError(t, err)
		close(release)
		<-done
		ok, _ = WithDelay(ctx, "b", time.Second, func() error { return nil })
		require.True(t, ok)
	})
}
