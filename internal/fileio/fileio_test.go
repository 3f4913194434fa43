package fileio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/textcore/internal/types"
)

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\r\ntwo\r\n"), 0o644))

	doc, err := ReadDocument(path)
	require.NoError(t, err)
	assert.True(t, doc.Exists)
	assert.Equal(t, "one\ntwo\n", doc.Text)
	assert.Equal(t, types.LineEndingWindows, doc.LineEnding)
}

func TestReadMissingDocument(t *testing.T) {
	doc, err := ReadDocument(filepath.Join(t.TempDir(), "new.rs"))
	require.NoError(t, err)
	assert.False(t, doc.Exists)
	assert.Equal(t, "", doc.Text)
	assert.Equal(t, types.LineEndingUnix, doc.LineEnding)
}

func TestReadErrorWrapsErrIO(t *testing.T) {
	_, err := ReadDocument(t.TempDir())
	assert.ErrorIs(t, err, types.ErrIO)
}

func TestWriteDocumentConverts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteDocument(path, "a\nb\n", types.LineEndingWindows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\r\nb\r\n", string(data))
}

func TestRoundTripKeepsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.txt")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFx\ry\r"), 0o600))

	doc, err := ReadDocument(path)
	require.NoError(t, err)
	assert.True(t, doc.BOM)
	assert.Equal(t, types.LineEndingMac, doc.LineEnding)
	assert.Equal(t, "x\ny\n", doc.Text)

	doc.Text += "z"
	require.NoError(t, WriteDoc(doc))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFx\ry\rz", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteWithoutPath(t *testing.T) {
	err := WriteDocument("", "x", types.LineEndingUnix)
	assert.ErrorIs(t, err, types.ErrIO)
}
