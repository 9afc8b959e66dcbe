package api

import (
	"log/slog"
	"net/http"
	"slices"

	murmurv1 "github.com/jdholdren/murmur/api/murmur/v1"
	"github.com/jdholdren/murmur/internal/murmur"
	"github.com/jdholdren/murmur/internal/serverutil"
)

// A computed feed along with the state it was computed from. It stays valid
// while no item has been published anywhere and the user's followees are the
// same.
type cachedFeed struct {
	sequence  int64
	followees []murmur.UserID
	resp      murmurv1.Feed
}

func (s *Server) getFeed(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx  = r.Context()
		user = pathUser(r, "userID")
	)

	// Stamp before reading so a concurrent write can only make the entry look
	// older than it is.
	seq := s.core.Clock().Current()
	followees := s.core.Followees(ctx, user)

	if cached, ok := s.feedCache.Get(user); ok && cached.sequence == seq && slices.Equal(cached.followees, followees) {
		slog.DebugContext(ctx, "feed cache hit")
		return serverutil.WriteJSON(w, http.StatusOK, cached.resp)
	}

	feed := s.core.Feed(ctx, user)
	resp := murmurv1.Feed{
		Items: make([]murmurv1.Item, 0, len(feed)),
		Size:  s.core.FeedSize(),
	}
	for _, it := range feed {
		resp.Items = append(resp.Items, murmurv1.FromItem(it))
	}
	s.feedCache.Add(user, cachedFeed{sequence: seq, followees: followees, resp: resp})

	return serverutil.WriteJSON(w, http.StatusOK, resp)
}
