package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/ovumcal/internal/ical"
	"github.com/terraincognita07/ovumcal/internal/models"
)

type failingEncoder struct{ err error }

func (encoder failingEncoder) Encode([]models.CalendarEvent) ([]byte, error) {
	return nil, encoder.err
}

func testEvents() []models.CalendarEvent {
	return []models.CalendarEvent{{
		UID:        "a@ovumcal",
		Kind:       models.EventKindPeriod,
		Source:     models.SourceObserved,
		Start:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		Title:      "Period",
		Categories: []string{"MENSTRUATION"},
	}}
}

func TestWriteCalendarCreatesFileAndDirectories(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out", "nested", "cycle.ics")
	encoder := ical.NewEncoder(ical.Options{Name: "Cycle"})

	result, err := WriteCalendar(path, testEvents(), encoder)
	require.NoError(t, err)
	assert.False(t, result.Unchanged)
	assert.Equal(t, 1, result.Events)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, len(content), result.Bytes)
	assert.Equal(t, Digest(content), result.Digest)
	assert.Len(t, result.Digest, 64)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteCalendarSecondRunIsUnchanged(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cycle.ics")
	encoder := ical.NewEncoder(ical.Options{Name: "Cycle"})

	first, err := WriteCalendar(path, testEvents(), encoder)
	require.NoError(t, err)
	second, err := WriteCalendar(path, testEvents(), encoder)
	require.NoError(t, err)

	assert.True(t, second.Unchanged)
	assert.Equal(t, first.Digest, second.Digest)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteCalendarEncodeFailureLeavesExistingFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cycle.ics")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	cause := errors.New("boom")
	_, err := WriteCalendar(path, testEvents(), failingEncoder{err: cause})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExportFailure)
	assert.ErrorIs(t, err, cause)

	var exportErr *ExportError
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, "encode", exportErr.Op)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(content))
}

func TestWriteCalendarReportsUnwritableTarget(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := WriteCalendar(filepath.Join(blocker, "cycle.ics"), testEvents(), ical.NewEncoder(ical.Options{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExportFailure)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
