package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jdholdren/murmur/internal/murmur"
)

const subscriptionNamespace = "sub"

func (r Repo) InsertSubscription(ctx context.Context, follower, followee murmur.UserID) error {
	const q = `INSERT OR IGNORE INTO subscriptions (id, follower_id, followee_id) VALUES (?, ?, ?);`

	id := fmt.Sprintf("%s-%s", uuid.New().String(), subscriptionNamespace)
	if _, err := r.db.ExecContext(ctx, q, id, follower, followee); err != nil {
		return fmt.Errorf("error creating subscription: %w", err)
	}

	return nil
}

func (r Repo) DeleteSubscription(ctx context.Context, follower, followee murmur.UserID) error {
	const q = `DELETE FROM subscriptions WHERE follower_id = ? AND followee_id = ?;`
	if _, err := r.db.ExecContext(ctx, q, follower, followee); err != nil {
		return fmt.Errorf("error deleting subscription: %w", err)
	}

	return nil
}

func (r Repo) Subscriptions(ctx context.Context) ([]murmur.Subscription, error) {
	const q = `SELECT id, follower_id, followee_id, created_at FROM subscriptions ORDER BY created_at, id;`

	subs := []murmur.Subscription{}
	if err := r.db.SelectContext(ctx, &subs, q); err != nil {
		return nil, fmt.Errorf("error selecting subscriptions: %w", err)
	}

	return subs, nil
}
