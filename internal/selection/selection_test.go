package selection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_EmptyUntilFirstSelection(t *testing.T) {
	s := New()

	sel, ok := s.Get()
	assert.False(t, ok)
	assert.Empty(t, sel.Code)
	assert.Empty(t, s.Code())
	assert.Empty(t, s.DisplayName())
}

func TestState_Set(t *testing.T) {
	s := New()

	require.NoError(t, s.Set("8471.30", "Laptop"))
	sel, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, "8471.30", sel.Code)
	assert.Equal(t, "Laptop", sel.DisplayName)

	require.NoError(t, s.Set("0101", ""))
	assert.Equal(t, "0101", s.Code())
	assert.Empty(t, s.DisplayName())
}

func TestState_RejectsEmptyCode(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("8471", "Computers"))

	err := s.Set("   ", "ignored")
	assert.ErrorIs(t, err, ErrEmptyCode)
	assert.Equal(t, "8471", s.Code(), "failed set must not clobber the previous selection")
}

func TestState_NameFor(t *testing.T) {
	s := New()
	assert.Empty(t, s.NameFor("8471"))

	require.NoError(t, s.Set("8471", "Computers"))
	assert.Equal(t, "Computers", s.NameFor(" 8471 "))
	assert.Empty(t, s.NameFor("8472"))
}

func TestState_IsolatedInstances(t *testing.T) {
	a, b := New(), New()
	require.NoError(t, a.Set("8471", "Computers"))

	_, ok := b.Get()
	assert.False(t, ok)
}

func TestState_ConcurrentAccess(_ *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Set("8471", "Computers")
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Get()
		}()
	}
	wg.Wait()
}
