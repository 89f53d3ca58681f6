package artifact

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagenti/a2aclient/a2a"
	"github.com/kagenti/a2aclient/core"
)

// Interface compliance (compile-time assertions)
var _ core.ArtifactStore = (*InMemoryStore)(nil)

func textArtifact(id, text string) a2a.Artifact {
	return a2a.Artifact{ArtifactID: id, Parts: []a2a.Part{a2a.TextPart(text)}, Metadata: map[string]any{"k": "v"}}
}

func TestInMemoryStore_SaveGetIsolation(t *testing.T) {
	store := NewInMemoryStore()

	in := textArtifact("a1", "hello")
	require.NoError(t, store.Save("s1", in))

	in.Parts[0].Text = "mutated"
	in.Metadata["k"] = "mutated"

	out, err := store.Get("s1", "a1")
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Text())
	assert.Equal(t, "v", out.Metadata["k"])

	out.Parts[0].Text = "changed"
	again, err := store.Get("s1", "a1")
	require.NoError(t, err)
	assert.Equal(t, "hello", again.Text())
}

func TestInMemoryStore_SaveRequiresID(t *testing.T) {
	store := NewInMemoryStore()
	assert.ErrorIs(t, store.Save("s1", a2a.Artifact{}), ErrMissingID)
}

func TestInMemoryStore_ListOrderAndOverwrite(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.Save("s1", textArtifact("a1", "one")))
	require.NoError(t, store.Save("s1", textArtifact("a2", "two")))
	require.NoError(t, store.Save("s1", textArtifact("a1", "uno")))

	list, err := store.List("s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a1", list[0].ArtifactID)
	assert.Equal(t, "uno", list[0].Text())
	assert.Equal(t, "a2", list[1].ArtifactID)

	empty, err := store.List("unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInMemoryStore_Delete(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Save("s1", textArtifact("a1", "one")))
	require.NoError(t, store.Save("s1", textArtifact("a2", "two")))

	require.NoError(t, store.Delete("s1", "a1"))

	_, err := store.Get("s1", "a1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete("s1", "a1"), ErrNotFound)
	assert.ErrorIs(t, store.Delete("nope", "a1"), ErrNotFound)

	list, err := store.List("s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a2", list[0].ArtifactID)
}

func TestInMemoryStore_DeleteSession(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Save("s1", textArtifact("a1", "one")))
	require.NoError(t, store.Save("s1", textArtifact("a2", "two")))
	require.NoError(t, store.Save("s2", textArtifact("a1", "other")))

	assert.Equal(t, 2, store.DeleteSession("s1"))
	assert.Zero(t, store.DeleteSession("s1"))

	list, err := store.List("s1")
	require.NoError(t, err)
	assert.Empty(t, list)

	other, err := store.Get("s2", "a1")
	require.NoError(t, err)
	assert.Equal(t, "other", other.Text())
}

func TestInMemoryStore_Concurrent(t *testing.T) {
	store := NewInMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Save("s1", textArtifact(fmt.Sprintf("a%d", i), "x"))
			_, _ = store.List("s1")
		}(i)
	}
	wg.Wait()

	list, err := store.List("s1")
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
