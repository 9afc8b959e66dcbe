package api

import (
	"hash/fnv"
	"sync"

	"github.com/jdholdren/murmur/internal/murmur"
)

// followerLocks serializes edge changes per follower so that the journal
// records a follower's follows and unfollows in the order the core applied
// them. Followers share one of a fixed number of stripes.
type followerLocks struct {
	stripes [64]sync.Mutex
}

// lock takes the follower's stripe and returns its unlock.
func (l *followerLocks) lock(follower murmur.UserID) func() {
	m := &l.stripes[l.stripeOf(follower)]
	m.Lock()
	return m.Unlock
}

func (l *followerLocks) stripeOf(follower murmur.UserID) uint32 {
	h := fnv.New32a()
	h.Write([]byte(follower))
	return h.Sum32() % uint32(len(l.stripes))
}
