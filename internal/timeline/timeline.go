// Package timeline is the feed core: it publishes items, manages follows and
// merges the logs of everyone a user follows into their feed.
//
// All operations are total. Unknown users behave like users with no items and
// no followees, and nothing here returns an error.
package timeline

import (
	"context"
	"log/slog"

	"github.com/jdholdren/murmur/internal/graph"
	"github.com/jdholdren/murmur/internal/itemlog"
	"github.com/jdholdren/murmur/internal/murmur"
	"github.com/jdholdren/murmur/internal/sequence"
)

type (
	// Service wires the subscription graph and the item log together.
	Service struct {
		graph    murmur.SubscriptionGraph
		items    murmur.ItemLog
		feedSize int
	}

	// Option changes how a Service is built.
	Option func(*Service)
)

// WithFeedSize sets how many items a feed holds. Non-positive sizes are ignored.
func WithFeedSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.feedSize = n
		}
	}
}

// WithGraph replaces the in-memory subscription graph.
func WithGraph(g murmur.SubscriptionGraph) Option {
	return func(s *Service) {
		s.graph = g
	}
}

// WithItemLog replaces the in-memory item log. Items are then stamped by the
// log's own clock instead of the one passed to New.
func WithItemLog(l murmur.ItemLog) Option {
	return func(s *Service) {
		s.items = l
	}
}

// New creates an empty core stamping items with clock.
func New(clock *sequence.Clock, opts ...Option) *Service {
	s := &Service{
		graph:    graph.New(),
		items:    itemlog.New(clock),
		feedSize: murmur.DefaultFeedSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FeedSize is the maximum number of items Feed returns.
func (s *Service) FeedSize() int {
	return s.feedSize
}

// Clock returns the clock published items are stamped with.
func (s *Service) Clock() *sequence.Clock {
	return s.items.Clock()
}

// Publish appends an item to the user's log and makes sure the user sees their
// own items.
func (s *Service) Publish(ctx context.Context, user murmur.UserID, id murmur.ItemID) murmur.Item {
	s.graph.EnsureSelf(user)
	item := s.items.Append(user, id)

	slog.DebugContext(ctx, "published item", "user_id", user, "item_id", id, "sequence", item.Sequence)

	return item
}

// Restore puts back an item that was published before, keeping its sequence.
func (s *Service) Restore(user murmur.UserID, item murmur.Item) {
	s.graph.EnsureSelf(user)
	s.items.Restore(user, item)
}

// Follow adds an edge. Following twice has no further effect.
func (s *Service) Follow(ctx context.Context, follower, followee murmur.UserID) {
	s.graph.Follow(follower, followee)
	slog.DebugContext(ctx, "followed", "follower_id", follower, "followee_id", followee)
}

// Unfollow removes an edge. Unfollowing yourself does nothing.
func (s *Service) Unfollow(ctx context.Context, follower, followee murmur.UserID) {
	if follower == followee {
		slog.DebugContext(ctx, "ignoring self unfollow", "user_id", follower)
		return
	}
	s.graph.Unfollow(follower, followee)
	slog.DebugContext(ctx, "unfollowed", "follower_id", follower, "followee_id", followee)
}

// Follows reports whether follower currently follows followee.
func (s *Service) Follows(follower, followee murmur.UserID) bool {
	return s.graph.Follows(follower, followee)
}

// Published is how many items the user has published.
func (s *Service) Published(user murmur.UserID) int {
	return s.items.Len(user)
}

// Followees lists who the user follows, themself included once they have
// published.
func (s *Service) Followees(ctx context.Context, user murmur.UserID) []murmur.UserID {
	return s.graph.Followees(user)
}

// Feed returns the most recent items across everyone the user follows, newest
// first, at most FeedSize of them.
//
// Only the last FeedSize items of each followee are read: an item below that
// position in its own log can never make the global window.
func (s *Service) Feed(ctx context.Context, user murmur.UserID) []murmur.Item {
	followees := s.graph.Followees(user)
	if len(followees) == 0 {
		return []murmur.Item{}
	}

	window := newTopN(s.feedSize)
	for _, followee := range followees {
		for _, item := range s.items.Recent(followee, s.feedSize) {
			window.Offer(item)
		}
	}

	return window.Descending()
}
