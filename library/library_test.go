package library

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortreel/types"
)

func TestLibraryAppendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "library.json")
	lib := New(path)

	first := types.VideoRecord{
		ID:        "20260827_120000_golden_retriever",
		Prompt:    "a video about golden retrievers",
		LocalPath: "/results/20260827_120000_golden_retriever/final.mp4",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Scenes: []types.Scene{
			{VisualQuery: "golden retriever close-up", Script: "Max is no ordinary dog."},
		},
	}
	require.NoError(t, lib.Append(first))
	require.NoError(t, lib.Append(types.VideoRecord{ID: "second"}))

	got, err := lib.All()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID, "records stay in append order")
	assert.Equal(t, first.Prompt, got[0].Prompt)
	require.Len(t, got[0].Scenes, 1)
	assert.Equal(t, first.Scenes[0].VisualQuery, got[0].Scenes[0].VisualQuery)
	assert.Equal(t, "second", got[1].ID)
}

func TestLibraryMissingFileIsEmpty(t *testing.T) {
	lib := New(filepath.Join(t.TempDir(), "absent.json"))
	got, err := lib.All()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLibraryCorruptIndexIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := New(path).All()
	assert.Error(t, err)
}

func TestLibraryConcurrentAppends(t *testing.T) {
	lib := New(filepath.Join(t.TempDir(), "library.json"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, lib.Append(types.VideoRecord{ID: string(rune('a' + n))}))
		}(i)
	}
	wg.Wait()

	got, err := lib.All()
	require.NoError(t, err)
	assert.Len(t, got, 8)
}
