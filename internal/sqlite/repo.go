// Package sqlite is the journal: a write-through record of publishes and
// follow edges that can rebuild the feed core after a restart.
package sqlite

import (
	"github.com/jmoiron/sqlx"

	"github.com/jdholdren/murmur/internal/murmur"
)

// Ensure Repo implements the Journal interface
var _ murmur.Journal = (*Repo)(nil)

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repo {
	return Repo{db: db}
}
