package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenReadClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob")
	require.NoError(t, os.WriteFile(path, []byte("hello mmap"), 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, []byte("hello mmap"), m.Bytes())

	p := make([]byte, 4)
	n, err := m.ReadAt(p, 6)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte("mmap"), p)

	// Short read past the end reports EOF.
	n, err = m.ReadAt(make([]byte, 8), 6)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 4, n)

	_, err = m.ReadAt(p, 100)
	assert.Error(t, err)

	require.NoError(t, m.Close())
	// Double close is a no-op.
	assert.NoError(t, m.Close())
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, m.Bytes())
	assert.NoError(t, m.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
