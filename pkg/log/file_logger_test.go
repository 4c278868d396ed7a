package log

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldEvent(id, path string, start, end uint64) Event {
	return Event{
		Timestamp:     time.Now(),
		ElaborationID: id,
		Stage:         StageLayout,
		Category:      CategoryField,
		Subject:       "regs",
		Field: &FieldEvent{
			Path:  path,
			Start: start,
			End:   end,
			Kind:  "bits",
		},
	}
}

func TestFileLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.blog")

	logger, err := NewFileLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "log file was not created")
}

func TestFileLoggerWritesCBOR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.blog")

	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	event := fieldEvent("elab-1", "ctrl", 0, 32)
	logger.Log(event)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, event.ElaborationID, decoded.ElaborationID)
	require.NotNil(t, decoded.Field)
	assert.Equal(t, uint64(32), decoded.Field.End)
	assert.True(t, event.Timestamp.Equal(decoded.Timestamp))
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.blog")

	for i, p := range []string{"a", "b"} {
		logger, err := NewFileLogger(path)
		require.NoError(t, err)
		logger.Log(fieldEvent("elab-1", p, uint64(i*8), uint64(i*8+8)))
		require.NoError(t, logger.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	events, err := DecodeEvents(data)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].Field.Path)
	assert.Equal(t, "b", events[1].Field.Path)
}

func TestFileLoggerCloseTwice(t *testing.T) {
	logger, err := NewFileLogger(filepath.Join(t.TempDir(), "test.blog"))
	require.NoError(t, err)

	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())

	// Ignored after close
	logger.Log(fieldEvent("elab-1", "x", 0, 1))
}

func TestStreamLoggerConcurrent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStreamLogger(&buf)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 10 {
				logger.Log(fieldEvent("elab-c", "f", uint64(i), uint64(j)))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	events, err := DecodeEvents(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, events, 80)
}
