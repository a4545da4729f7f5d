package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinner_EmptyPool(t *testing.T) {
	res := NewSpinner().Spin(nil)
	assert.Nil(t, res.Winner)
	assert.NotNil(t, res.Pool)
	assert.Empty(t, res.Pool)
	assert.Zero(t, res.TotalPoolSize)
}

func TestSpinner_WinnerIsPoolMember(t *testing.T) {
	pool := []*Item{
		{ID: "a", Status: StatusActive},
		{ID: "b", Status: StatusActive},
		{ID: "c", Status: StatusActive},
	}

	s := NewSpinner()
	for i := 0; i < 50; i++ {
		res := s.Spin(pool)
		require.NotNil(t, res.Winner)
		assert.Equal(t, 3, res.TotalPoolSize)
		assert.Contains(t, pool, res.Winner)
	}
}

func TestSpinner_FixedSource(t *testing.T) {
	pool := []*Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	s := NewSpinnerWithSource(func(n int) int { return 1 })
	res := s.Spin(pool)
	require.NotNil(t, res.Winner)
	assert.Equal(t, "b", res.Winner.ID)
}

func TestItem_CloneIsIndependent(t *testing.T) {
	orig := &Item{ID: "a", Tags: []string{"rpg"}}
	cp := orig.Clone()
	cp.Tags[0] = "changed"
	cp.Title = "changed"

	assert.Equal(t, "rpg", orig.Tags[0])
	assert.Empty(t, orig.Title)
}
