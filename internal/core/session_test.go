package core

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_StartsEmpty(t *testing.T) {
	s := NewSession()

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, StateEmpty, s.State())
	assert.Nil(t, s.Table())
	assert.Equal(t, "", s.FileName())
	assert.True(t, s.LoadedAt().IsZero())

	_, err := s.Search("Name", "a")
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestSession_LoadTransitions(t *testing.T) {
	s := NewSession()

	require.NoError(t, s.Load([]byte("Name\nBob\nana\n"), "people.csv"))
	assert.Equal(t, StateLoaded, s.State())
	assert.Equal(t, "people.csv", s.FileName())
	assert.False(t, s.LoadedAt().IsZero())
	first := s.Table()

	// A second successful load replaces the table wholesale.
	require.NoError(t, s.Load([]byte("City\nParis\n"), "cities.csv"))
	assert.Equal(t, StateLoaded, s.State())
	assert.Equal(t, []string{"City"}, s.Table().Columns)
	assert.NotSame(t, first, s.Table())

	_, err := s.Search("Name", "a")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestSession_FailedLoadKeepsState(t *testing.T) {
	t.Run("from empty", func(t *testing.T) {
		s := NewSession()

		err := s.Load([]byte{0xFF, 0xFE, 0x00, 0x81}, "data.csv")
		require.Error(t, err)
		assert.True(t, IsLoadError(err))
		assert.Equal(t, StateEmpty, s.State())
		assert.Nil(t, s.Table())
	})

	t.Run("from loaded", func(t *testing.T) {
		s := NewSession()
		require.NoError(t, s.Load([]byte("Name\nBob\n"), "people.csv"))
		before := s.Table()

		err := s.Load([]byte{0xFF, 0xFE, 0x00, 0x81}, "data.csv")
		require.Error(t, err)
		assert.Same(t, before, s.Table())
		assert.Equal(t, "people.csv", s.FileName())

		err = s.LoadReader(strings.NewReader("Name\n"+strings.Repeat("x\n", 64)), "big.csv", 16)
		assert.ErrorIs(t, err, ErrFileTooLarge)
		assert.Same(t, before, s.Table())
	})
}

func TestSession_Search(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.LoadReader(strings.NewReader("Name\nBob\nana\n"), "people.csv", 1024))

	res, err := s.Search("Name", "AN")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Rows)
}

func TestSession_Clear(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Load([]byte("Name\nBob\n"), "people.csv"))

	s.Clear()
	assert.Equal(t, StateEmpty, s.State())
	assert.Equal(t, "", s.FileName())
}

func TestSession_ConcurrentUse(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Load([]byte("Name\nBob\nana\n"), "people.csv"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Load([]byte("Name\nDana\n"), "other.csv")
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Search("Name", "a")
		}()
	}
	wg.Wait()

	assert.Equal(t, StateLoaded, s.State())
}

func TestSessionState_String(t *testing.T) {
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "loaded", StateLoaded.String())
}
