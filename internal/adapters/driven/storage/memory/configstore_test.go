package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_Empty(t *testing.T) {
	store := NewConfigStore()

	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Load())
	assert.NoError(t, store.Save())

	_, ok := store.Get("embedding.model")
	assert.False(t, ok)
}

func TestConfigStore_SetOverwrites(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("embedding.model", "nomic-embed-text"))
	require.NoError(t, store.Set("embedding.model", "mxbai-embed-large"))

	val, ok := store.Get("embedding.model")
	assert.True(t, ok)
	assert.Equal(t, "mxbai-embed-large", val)
}

func TestConfigStore_SeedIsCopied(t *testing.T) {
	seed := map[string]any{"chunker.chunk_size": 200}
	store := NewConfigStore(seed)
	seed["chunker.chunk_size"] = 999

	val, ok := store.Get("chunker.chunk_size")
	require.True(t, ok)
	assert.Equal(t, 200, val)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set(fmt.Sprintf("key.%d", n), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			store.Get(fmt.Sprintf("key.%d", n))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		val, ok := store.Get(fmt.Sprintf("key.%d", i))
		require.True(t, ok)
		assert.Equal(t, i, val)
	}
}
