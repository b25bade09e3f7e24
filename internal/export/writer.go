package export

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/terraincognita07/ovumcal/internal/ical"
	"github.com/terraincognita07/ovumcal/internal/models"
	"golang.org/x/crypto/blake2b"
)

var ErrExportFailure = errors.New("export failure")

// ExportError wraps any failure to produce the artifact. The target path is
// either fully replaced or left untouched.
type ExportError struct {
	Op   string
	Path string
	Err  error
}

func (err *ExportError) Error() string {
	return fmt.Sprintf("export %s %s: %v", err.Op, err.Path, err.Err)
}

func (err *ExportError) Unwrap() []error {
	return []error{ErrExportFailure, err.Err}
}

type Result struct {
	Path      string
	Digest    string
	Bytes     int
	Events    int
	Unchanged bool
}

// WriteCalendar encodes events and atomically replaces path with the result.
// If the file already holds identical content it is left as is.
func WriteCalendar(path string, events []models.CalendarEvent, encoder ical.Encoder) (Result, error) {
	content, err := encoder.Encode(events)
	if err != nil {
		return Result{}, &ExportError{Op: "encode", Path: path, Err: err}
	}

	result := Result{
		Path:   path,
		Digest: Digest(content),
		Bytes:  len(content),
		Events: len(events),
	}

	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		result.Unchanged = true
		return result, nil
	}

	if err := writeFileAtomic(path, content); err != nil {
		return Result{}, err
	}
	return result, nil
}

// Digest is the hex BLAKE2b-256 of content.
func Digest(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ExportError{Op: "mkdir", Path: dir, Err: err}
	}

	temp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &ExportError{Op: "create", Path: path, Err: err}
	}
	tempPath := temp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tempPath)
		}
	}()

	if _, err := io.Copy(temp, bytes.NewReader(content)); err != nil {
		_ = temp.Close()
		return &ExportError{Op: "write", Path: path, Err: err}
	}
	if err := temp.Sync(); err != nil {
		_ = temp.Close()
		return &ExportError{Op: "sync", Path: path, Err: err}
	}
	if err := temp.Close(); err != nil {
		return &ExportError{Op: "close", Path: path, Err: err}
	}
	if err := os.Chmod(tempPath, 0o644); err != nil {
		return &ExportError{Op: "chmod", Path: path, Err: err}
	}
	if err := os.Rename(tempPath, path); err != nil {
		return &ExportError{Op: "rename", Path: path, Err: err}
	}
	committed = true
	return nil
}
