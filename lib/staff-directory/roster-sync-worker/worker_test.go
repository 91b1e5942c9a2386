package rostersyncworker

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	var seen []string
	fail := false
	w := NewWorker(path, time.Minute, func(ctx context.Context, r io.Reader) (int, error) {
		if fail {
			return 0, errors.New("bad file")
		}
		body, err := io.ReadAll(r)
		require.NoError(t, err)
		seen = append(seen, string(body))
		return 1, nil
	})
	ctx := context.Background()

	w.Sync(ctx)
	w.Sync(ctx)
	require.Equal(t, []string{"v1"}, seen)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o600))
	require.NoError(t, os.Chtimes(path, later, later))
	fail = true
	w.Sync(ctx)
	fail = false
	w.Sync(ctx)
	require.Equal(t, []string{"v1", "v2"}, seen)

	t.Run("already loaded version is skipped", func(t *testing.T) {
		w.MarkLoaded(later.Add(time.Minute))
		require.NoError(t, os.Chtimes(path, later.Add(time.Second), later.Add(time.Second)))
		w.Sync(ctx)
		require.Len(t, seen, 2)
	})
	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		require.NoError(t, os.Chtimes(path, later.Add(time.Hour), later.Add(time.Hour)))
		w.Sync(cancelled)
		require.Len(t, seen, 2)
	})
}
