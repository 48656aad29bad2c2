package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndGet(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	s.Put(&Analysis{ID: "a1", VideoName: "clip.mp4", Status: StatusProcessing})

	got, ok := s.Get("a1")
	require.True(t, ok)
	assert.Equal(t, "clip.mp4", got.VideoName)
	assert.Equal(t, StatusProcessing, got.Status)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetMissing(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestUpdateMutatesStoredEntry(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	s.Put(&Analysis{ID: "a1", Status: StatusProcessing})
	s.Update("a1", func(a *Analysis) {
		a.Status = StatusCompleted
		a.Stage = "done"
	})

	got, ok := s.Get("a1")
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, "done", got.Stage)
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	s.Put(&Analysis{ID: "a1", Status: StatusProcessing})
	got, _ := s.Get("a1")
	got.Status = StatusFailed

	again, _ := s.Get("a1")
	assert.Equal(t, StatusProcessing, again.Status)
}

func TestListNewestFirst(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	s.Put(&Analysis{ID: "old"})
	time.Sleep(5 * time.Millisecond)
	s.Put(&Analysis{ID: "new"})

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}
