package credential

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("")

	_, err := m.Token(ctx)
	require.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, m.Store(ctx, "tok-1"))
	got, err := m.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)

	require.NoError(t, m.Delete(ctx))
	_, err = m.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestFile_Lifecycle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token")
	f := NewFile(path)

	_, err := f.Token(ctx)
	require.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, f.Store(ctx, "tok-2"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := f.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", got)

	require.NoError(t, f.Delete(ctx))
	_, err = f.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)

	// Deleting again is a no-op.
	assert.NoError(t, f.Delete(ctx))
}

func TestFile_TrimsWhitespace(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  tok-3\n\n"), 0o600))

	got, err := NewFile(path).Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-3", got)
}
