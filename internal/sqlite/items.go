package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jdholdren/murmur/internal/murmur"
)

const itemNamespace = "itm"

func (r Repo) InsertItem(ctx context.Context, user murmur.UserID, item murmur.Item) error {
	const q = `INSERT INTO items (id, user_id, item_id, sequence) VALUES (?, ?, ?, ?);`

	id := fmt.Sprintf("%s-%s", uuid.New().String(), itemNamespace)
	if _, err := r.db.ExecContext(ctx, q, id, user, item.ID, item.Sequence); err != nil {
		return fmt.Errorf("error inserting item: %w", err)
	}

	return nil
}

// Items lists journaled items in ascending sequence order.
func (r Repo) Items(ctx context.Context, args murmur.ItemsArgs) ([]murmur.PublishedItem, error) {
	q := sq.Select("id", "user_id", "item_id", "sequence", "created_at").
		From("items").
		Where(sq.Gt{"sequence": args.AfterSequence}).
		OrderBy("sequence ASC")
	if args.UserID != "" {
		q = q.Where(sq.Eq{"user_id": args.UserID})
	}
	if args.Limit > 0 {
		q = q.Limit(args.Limit)
	}

	query, queryArgs, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error generating SQL query: %w", err)
	}

	items := []murmur.PublishedItem{}
	if err := r.db.SelectContext(ctx, &items, query, queryArgs...); err != nil {
		return nil, fmt.Errorf("error selecting items: %w", err)
	}

	return items, nil
}
