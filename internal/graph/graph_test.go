package graph

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/murmur/internal/murmur"
)

func TestFollowees_UnknownUser(t *testing.T) {
	g := New()

	got := g.Followees("nobody")
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.False(t, g.Follows("nobody", "anyone"))
}

func TestFollow_Idempotent(t *testing.T) {
	g := New()

	g.Follow("a", "b")
	once := g.Followees("a")
	g.Follow("a", "b")
	twice := g.Followees("a")

	assert.Equal(t, []murmur.UserID{"b"}, once)
	assert.Equal(t, once, twice)
}

func TestUnfollow(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(g *Graph)
		follow murmur.UserID
		target murmur.UserID
		want   []murmur.UserID
	}{
		{
			name:   "removes an existing edge",
			setup:  func(g *Graph) { g.Follow("a", "b"); g.Follow("a", "c") },
			follow: "a",
			target: "b",
			want:   []murmur.UserID{"c"},
		},
		{
			name:   "not followed is a no-op",
			setup:  func(g *Graph) { g.Follow("a", "c") },
			follow: "a",
			target: "b",
			want:   []murmur.UserID{"c"},
		},
		{
			name:   "unknown follower is a no-op",
			setup:  func(g *Graph) {},
			follow: "a",
			target: "b",
			want:   []murmur.UserID{},
		},
		{
			name:   "self edge survives",
			setup:  func(g *Graph) { g.EnsureSelf("a"); g.Follow("a", "b") },
			follow: "a",
			target: "a",
			want:   []murmur.UserID{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			tt.setup(g)

			g.Unfollow(tt.follow, tt.target)

			assert.Equal(t, tt.want, g.Followees(tt.follow))
		})
	}
}

func TestEnsureSelf(t *testing.T) {
	g := New()

	g.EnsureSelf("a")
	g.EnsureSelf("a")

	assert.Equal(t, []murmur.UserID{"a"}, g.Followees("a"))
	assert.True(t, g.Follows("a", "a"))
}

func TestFollowees_ReturnsCopy(t *testing.T) {
	g := New()
	g.Follow("a", "b")

	got := g.Followees("a")
	got[0] = "mallory"
	_ = append(got, "eve")

	assert.Equal(t, []murmur.UserID{"b"}, g.Followees("a"))
}

func TestGraph_Concurrent(t *testing.T) {
	g := New()
	const followers = 20
	const followeesEach = 50

	var wg sync.WaitGroup
	for i := 0; i < followers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			follower := murmur.UserID(fmt.Sprintf("user-%d", i))
			for j := 0; j < followeesEach; j++ {
				g.Follow(follower, murmur.UserID(fmt.Sprintf("target-%d", j)))
				_ = g.Followees(follower)
			}
			// Drop the odd ones again.
			for j := 1; j < followeesEach; j += 2 {
				g.Unfollow(follower, murmur.UserID(fmt.Sprintf("target-%d", j)))
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < followers; i++ {
		follower := murmur.UserID(fmt.Sprintf("user-%d", i))
		assert.Len(t, g.Followees(follower), followeesEach/2)
	}
}
