package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenOutput_Streams(t *testing.T) {
	for _, output := range []string{"", "stderr", "stdout"} {
		w, err := OpenOutput(output)
		require.NoError(t, err, output)
		require.NoError(t, w.Close(), output)
	}

	// closing the stream wrapper must leave the real stream usable
	_, err := os.Stderr.Write(nil)
	require.NoError(t, err)
}

func TestOpenOutput_File(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		output string
		path   string
	}{
		{"plain path", filepath.Join(dir, "logs", "server.log"), filepath.Join(dir, "logs", "server.log")},
		{"file scheme", "file://" + filepath.Join(dir, "nested", "deep", "app.log"), filepath.Join(dir, "nested", "deep", "app.log")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := OpenOutput(tt.output)
			require.NoError(t, err)
			_, err = w.Write([]byte("first\n"))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			w, err = OpenOutput(tt.output)
			require.NoError(t, err)
			_, err = w.Write([]byte("second\n"))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			data, err := os.ReadFile(tt.path)
			require.NoError(t, err)
			assert.Equal(t, "first\nsecond\n", string(data))
		})
	}
}

func TestOpenOutput_Unsupported(t *testing.T) {
	for _, output := range []string{"syslog", "http://example.com/logs", "file://"} {
		_, err := OpenOutput(output)
		assert.Error(t, err, output)
	}
}
