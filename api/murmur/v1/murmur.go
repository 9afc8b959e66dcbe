// Package v1 holds the JSON bodies of murmur's HTTP API.
package v1

import (
	"net/http"

	seyerrs "github.com/jdholdren/murmur/internal/errors"
	"github.com/jdholdren/murmur/internal/murmur"
)

// MaxItemIDLen is the longest item id a publish accepts.
const MaxItemIDLen = 256

type (
	PublishRequest struct {
		ItemID string `json:"item_id"`
	}

	Item struct {
		ItemID   murmur.ItemID `json:"item_id"`
		Sequence int64         `json:"sequence"`
	}

	Feed struct {
		Items []Item `json:"items"` // Most recent first
		Size  int    `json:"size"`  // The most items a feed holds
	}

	Following struct {
		Following []murmur.UserID `json:"following"`
	}

	Health struct {
		UptimeSeconds int64 `json:"uptime_seconds"`
	}
)

func (p PublishRequest) Validate() error {
	var errs []seyerrs.Detail
	switch {
	case p.ItemID == "":
		errs = append(errs, seyerrs.Detail{Field: "item_id", Error: "required"})
	case len(p.ItemID) > MaxItemIDLen:
		errs = append(errs, seyerrs.Detail{Field: "item_id", Error: "too long"})
	}
	if len(errs) > 0 {
		return seyerrs.E("invalid request", http.StatusBadRequest, errs)
	}

	return nil
}

// FromItem converts a core item to its wire form.
func FromItem(it murmur.Item) Item {
	return Item{ItemID: it.ID, Sequence: it.Sequence}
}
