package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTree(t *testing.T) {
	dir := WriteTree(t, map[string]string{
		"a.bbm":       "let a = 1;",
		"lib/b/c.bbm": "#exclude;",
	})

	data, err := os.ReadFile(filepath.Join(dir, "lib", "b", "c.bbm"))
	require.NoError(t, err)
	assert.Equal(t, "#exclude;", string(data))
	assert.FileExists(t, filepath.Join(dir, "a.bbm"))
}

func TestSafeBuffer_ConcurrentWrites(t *testing.T) {
	var (
		buf SafeBuffer
		wg  sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = buf.Write([]byte("x"))
		}()
	}
	wg.Wait()

	assert.Len(t, buf.String(), 8)
}
