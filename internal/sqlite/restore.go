package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jdholdren/murmur/internal/murmur"
	"github.com/jdholdren/murmur/internal/timeline"
)

// Items are replayed in pages of this size.
const restorePageSize = 500

// Restore replays the journal into svc: every item in sequence order, then every
// follow edge. svc should be empty.
func Restore(ctx context.Context, repo Repo, svc *timeline.Service) error {
	var (
		after    int64
		restored int
	)
	for {
		page, err := repo.Items(ctx, murmur.ItemsArgs{AfterSequence: after, Limit: restorePageSize})
		if err != nil {
			return fmt.Errorf("error reading journal items: %w", err)
		}
		for _, it := range page {
			svc.Restore(it.UserID, murmur.Item{ID: it.ItemID, Sequence: it.Sequence})
			after = it.Sequence
		}
		restored += len(page)
		if len(page) < restorePageSize {
			break
		}
	}

	subs, err := repo.Subscriptions(ctx)
	if err != nil {
		return fmt.Errorf("error reading journal subscriptions: %w", err)
	}
	for _, sub := range subs {
		svc.Follow(ctx, sub.FollowerID, sub.FolloweeID)
	}

	slog.InfoContext(ctx, "journal restored",
		"items", restored,
		"subscriptions", len(subs),
		"sequence", svc.Clock().Current(),
	)

	return nil
}
