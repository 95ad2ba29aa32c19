package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpen(t *testing.T) {
	path := writeFixture(t, []byte("mapped contents"))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, []byte("mapped contents"), m.Bytes())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestOpen_Empty(t *testing.T) {
	path := writeFixture(t, nil)

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Empty(t, m.Bytes())
}

func TestReadAt(t *testing.T) {
	path := writeFixture(t, []byte("0123456789"))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	buf := make([]byte, 4)
	n, err := m.ReadAt(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte("2345"), buf)
}

func TestClose_Idempotent(t *testing.T) {
	path := writeFixture(t, []byte("x"))

	m, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	buf := make([]byte, 1)
	_, err = m.ReadAt(buf, 0)
	assert.ErrorIs(t, err, ErrClosed)
}
