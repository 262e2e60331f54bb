package files

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveUnparsedWriteOnce(t *testing.T) {
	store := NewStore(t.TempDir())
	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)

	path, written, err := store.SaveUnparsed("mepso", day, "pdf", []byte("first"))
	require.NoError(t, err)
	assert.True(t, written)
	assert.Contains(t, path, "mepso_2025-03-07_unparsed.pdf")

	_, written, err = store.SaveUnparsed("mepso", day, "pdf", []byte("second"))
	require.NoError(t, err)
	assert.False(t, written, "existing stash is never overwritten")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestListUnparsed(t *testing.T) {
	store := NewStore(t.TempDir())

	_, _, err := store.SaveUnparsed("mepso", time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), "bin", []byte("x"))
	require.NoError(t, err)
	_, _, err = store.SaveUnparsed("mepso", time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), "pdf", []byte("y"))
	require.NoError(t, err)
	_, _, err = store.SaveUnparsed("nosbih", time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), "html", []byte("z"))
	require.NoError(t, err)

	names, err := store.ListUnparsed("mepso")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"mepso_2025-03-07_unparsed.pdf",
		"mepso_2025-03-09_unparsed.bin",
	}, names)
}

func TestSniffExtension(t *testing.T) {
	assert.Equal(t, "pdf", SniffExtension([]byte("%PDF-1.7 ...")))
	assert.Equal(t, "xlsx", SniffExtension([]byte("PK\x03\x04zip")))
	assert.Equal(t, "bin", SniffExtension([]byte("<html>")))
	assert.Equal(t, "bin", SniffExtension(nil))
}
