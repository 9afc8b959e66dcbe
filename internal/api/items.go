package api

import (
	"log/slog"
	"net/http"

	murmurv1 "github.com/jdholdren/murmur/api/murmur/v1"
	"github.com/jdholdren/murmur/internal/murmur"
	"github.com/jdholdren/murmur/internal/serverutil"
)

func (s *Server) postItem(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	body, err := serverutil.DecodeValid[murmurv1.PublishRequest](r.Body)
	if err != nil {
		return err
	}

	user := pathUser(r, "userID")
	item := s.core.Publish(ctx, user, murmur.ItemID(body.ItemID))

	if s.journal != nil {
		if err := s.journal.InsertItem(ctx, user, item); err != nil {
			slog.ErrorContext(ctx, "error journaling item", "error", err, "sequence", item.Sequence)
			return err
		}
	}

	return serverutil.WriteJSON(w, http.StatusCreated, murmurv1.FromItem(item))
}
