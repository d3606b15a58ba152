package journal

import (
	"bytes"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-biolab/game/robot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdJSONL(t *testing.T) {
	at := time.Date(2024, 5, 17, 13, 4, 5, 0, time.UTC)
	entries := []robot.Entry{
		{Time: at, Message: "Mission started at (0,0)."},
		{Time: at.Add(time.Second), Message: "Moved to (1,0). Type: Water"},
	}

	t.Run("entries decode back in order", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteZstdJSONL(&buf, entries))

		lines, err := ReadZstdJSONL(&buf)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, Line{Time: "2024-05-17T13:04:05Z", Clock: "13:04:05", Message: "Mission started at (0,0)."}, lines[0])
		assert.Equal(t, "13:04:06", lines[1].Clock)
	})

	t.Run("output is compressed", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteZstdJSONL(&buf, entries))
		// zstd frame magic number
		assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, buf.Bytes()[:4])
	})

	t.Run("empty journal", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteZstdJSONL(&buf, nil))
		lines, err := ReadZstdJSONL(&buf)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := ReadZstdJSONL(bytes.NewReader([]byte("not zstd")))
		assert.Error(t, err)
	})
}
