// Package fileio moves documents between disk and the editor. The editor core
// itself never touches the filesystem.
package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is file content ready for the editor: newlines normalized to
// "\n", with the file's own convention kept in LineEnding.
type Document struct {
	Path       string
	Text       string
	LineEnding types.LineEnding
	BOM        bool // file started with a UTF-8 byte order mark
	Exists     bool // false when the file did not exist yet
}

// ReadDocument loads path. A missing file yields an empty document, so a new
// file can be created by saving.
func ReadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debugf("fileio: %s does not exist, starting empty", path)
			return Document{Path: path, LineEnding: types.LineEndingUnix}, nil
		}
		return Document{}, fmt.Errorf("failed to open file '%s': %w: %w", path, types.ErrIO, err)
	}

	doc := Document{Path: path, Exists: true}
	if bytes.HasPrefix(data, utf8BOM) {
		doc.BOM = true
		data = data[len(utf8BOM):]
	}
	raw := string(data)
	doc.LineEnding = types.DetectLineEnding(raw)
	doc.Text = types.NormalizeNewlines(raw)
	logger.Debugf("fileio: read %s (%d bytes, %s)", path, len(data), doc.LineEnding)
	return doc, nil
}

// WriteDocument converts text to le and writes it to path through a
// temporary file in the same directory, so a failed write leaves the old
// file intact.
func WriteDocument(path, text string, le types.LineEnding) error {
	return write(path, []byte(types.ConvertLineEndings(text, le)))
}

// WriteDoc writes doc back, keeping its line ending and byte order mark.
func WriteDoc(doc Document) error {
	content := []byte(types.ConvertLineEndings(doc.Text, doc.LineEnding))
	if doc.BOM {
		content = append(append([]byte{}, utf8BOM...), content...)
	}
	return write(doc.Path, content)
}

func write(path string, content []byte) error {
	if path == "" {
		return fmt.Errorf("no file path specified for saving: %w", types.ErrIO)
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write file '%s': %w: %w", path, types.ErrIO, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write file '%s': %w: %w", path, types.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to write file '%s': %w: %w", path, types.ErrIO, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("failed to write file '%s': %w: %w", path, types.ErrIO, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to write file '%s': %w: %w", path, types.ErrIO, err)
	}
	logger.Debugf("fileio: wrote %s (%d bytes)", path, len(content))
	return nil
}
