package testutil

import (
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRandomPort(t *testing.T) {
	seen := make(map[int]bool)
	for range 10 {
		port := GetRandomPort(t)
		assert.Greater(t, port, 0)
		assert.Less(t, port, 65536)
		assert.False(t, seen[port], "port %d handed out twice", port)
		seen[port] = true
	}
}

func TestGetRandomPortConcurrency(t *testing.T) {
	var wg sync.WaitGroup
	portChan := make(chan int, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			portChan <- GetRandomPort(t)
		}()
	}
	wg.Wait()
	close(portChan)

	seen := make(map[int]bool)
	for port := range portChan {
		assert.False(t, seen[port], "port %d handed out twice", port)
		seen[port] = true
	}
}

func TestGetRandomListeningPort(t *testing.T) {
	addr := GetRandomListeningPort(t)
	lis, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	require.NoError(t, lis.Close())
}

func TestThreadSafeBuffer(t *testing.T) {
	var buf ThreadSafeBuffer
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = buf.Write([]byte("x"))
		}()
	}
	wg.Wait()
	assert.Equal(t, "xxxxxxxxxx", buf.String())
	assert.True(t, buf.Contains("xx"))

	buf.Reset()
	assert.Empty(t, buf.String())
}

func TestWriteSourceTree(t *testing.T) {
	root := StandardSourceTree(t)
	data, err := os.ReadFile(filepath.Join(root, "js", "valid.js"))
	require.NoError(t, err)
	assert.Equal(t, ValidJS, string(data))
	assert.FileExists(t, filepath.Join(root, "js", "invalid.js"))
}
