package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("rejects a nil writer", func(t *testing.T) {
		l, err := New("APP", "", nil)
		assert.ErrorIs(t, err, ErrNilWriter)
		assert.Nil(t, l)
	})

	t.Run("writes prefixed levels", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("SESSION-MANAGER", "\033[36m", &buf)
		require.NoError(t, err)

		l.Info("started")
		l.Warning("slow archive")
		l.Error("archive failed")

		out := buf.String()
		assert.Contains(t, out, "[SESSION-MANAGER]")
		assert.Contains(t, out, "[INFO]"+colorReset+" started")
		assert.Contains(t, out, "[WARNING]"+colorReset+" slow archive")
		assert.Contains(t, out, "[ERROR]"+colorReset+" archive failed")
		assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("\n")))
	})
}
