// Package graph is the in-memory subscription graph: for every follower, the
// set of users whose items belong in their feed.
package graph

import (
	"slices"
	"sync"

	"github.com/jdholdren/murmur/internal/murmur"
)

var _ murmur.SubscriptionGraph = (*Graph)(nil)

// Graph maps followers to their followee sets.
//
// The index lock only guards finding or creating a follower's entry. Each
// follower's set has its own lock so that mutations for different followers do
// not contend.
type Graph struct {
	mu        sync.RWMutex
	followers map[murmur.UserID]*followees
}

type followees struct {
	mu  sync.RWMutex
	set map[murmur.UserID]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		followers: make(map[murmur.UserID]*followees),
	}
}

// Follow adds followee to follower's set. Following twice has no further effect.
func (g *Graph) Follow(follower, followee murmur.UserID) {
	f := g.entry(follower, true)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.set[followee] = struct{}{}
}

// EnsureSelf makes user a follower of themself.
func (g *Graph) EnsureSelf(user murmur.UserID) {
	f := g.entry(user, true)

	// Most calls find the edge already there.
	f.mu.RLock()
	_, ok := f.set[user]
	f.mu.RUnlock()
	if ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.set[user] = struct{}{}
}

// Unfollow removes followee from follower's set if it is there.
//
// The self-edge is owned by EnsureSelf and is left alone, so a user can never
// drop their own items from their feed.
func (g *Graph) Unfollow(follower, followee murmur.UserID) {
	if follower == followee {
		return
	}

	f := g.entry(follower, false)
	if f == nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.set, followee)
}

// Followees returns the follower's current followees sorted ascending. The
// slice is a copy; it is empty, not nil, for unknown followers.
func (g *Graph) Followees(follower murmur.UserID) []murmur.UserID {
	f := g.entry(follower, false)
	if f == nil {
		return []murmur.UserID{}
	}

	f.mu.RLock()
	ids := make([]murmur.UserID, 0, len(f.set))
	for id := range f.set {
		ids = append(ids, id)
	}
	f.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Follows reports whether follower currently follows followee.
func (g *Graph) Follows(follower, followee murmur.UserID) bool {
	f := g.entry(follower, false)
	if f == nil {
		return false
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.set[followee]
	return ok
}

// entry finds the follower's set, creating it when create is true. Returns nil
// when the follower is unknown and create is false.
func (g *Graph) entry(follower murmur.UserID, create bool) *followees {
	g.mu.RLock()
	f, ok := g.followers[follower]
	g.mu.RUnlock()
	if ok || !create {
		return f
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// Someone may have created it between the two locks.
	if f, ok := g.followers[follower]; ok {
		return f
	}
	f = &followees{set: make(map[murmur.UserID]struct{})}
	g.followers[follower] = f

	return f
}
