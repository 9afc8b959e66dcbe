// Package murmur holds the domain types shared by the feed core and the layers
// that host it.
package murmur

import (
	"context"
	"time"

	"github.com/jdholdren/murmur/internal/sequence"
)

// DefaultFeedSize is how many items a feed holds when no size is configured.
const DefaultFeedSize = 10

type (
	// UserID identifies a publisher or a follower. Ids are used on demand; there
	// is no registration step.
	UserID string

	// ItemID is the caller supplied identity of a published item.
	ItemID string

	// Item is a single published item.
	//
	// Sequence is assigned at publish time from a process-wide counter and is the
	// only ordering key between items of different users.
	Item struct {
		ID       ItemID `json:"item_id"`
		Sequence int64  `json:"sequence"`
	}
)

type (
	// SubscriptionGraph tracks who follows whom.
	SubscriptionGraph interface {
		Follow(follower, followee UserID)
		Unfollow(follower, followee UserID)
		// EnsureSelf makes sure a user follows themself so their own items show up
		// in their feed.
		EnsureSelf(user UserID)
		// Followees returns a copy of the follower's current followees.
		Followees(follower UserID) []UserID
		Follows(follower, followee UserID) bool
	}

	// ItemLog is the per-user, append-only store of published items.
	ItemLog interface {
		Append(user UserID, id ItemID) Item
		// Restore appends an item that already carries a sequence.
		Restore(user UserID, item Item)
		// Recent returns up to limit of the user's most recent items, oldest first.
		Recent(user UserID, limit int) []Item
		Len(user UserID) int
		// Clock is the counter Append stamps items with.
		Clock() *sequence.Clock
	}
)

type (
	// PublishedItem is a journal row for one publish.
	PublishedItem struct {
		ID        string    `db:"id"`
		UserID    UserID    `db:"user_id"`
		ItemID    ItemID    `db:"item_id"`
		Sequence  int64     `db:"sequence"`
		CreatedAt time.Time `db:"created_at"`
	}

	// Subscription is a journal row for one follow edge.
	Subscription struct {
		ID         string    `db:"id"`
		FollowerID UserID    `db:"follower_id"`
		FolloweeID UserID    `db:"followee_id"`
		CreatedAt  time.Time `db:"created_at"`
	}

	// ItemsArgs filters journal items.
	ItemsArgs struct {
		// Only items by this user when set.
		UserID UserID
		// Only items with a sequence strictly greater than this.
		AfterSequence int64
		// No limit when zero.
		Limit uint64
	}

	// Journal records state changes of the core so it can be rebuilt on start.
	Journal interface {
		InsertItem(ctx context.Context, user UserID, item Item) error
		InsertSubscription(ctx context.Context, follower, followee UserID) error
		DeleteSubscription(ctx context.Context, follower, followee UserID) error
	}
)
