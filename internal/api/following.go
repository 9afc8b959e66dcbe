package api

import (
	"log/slog"
	"net/http"

	murmurv1 "github.com/jdholdren/murmur/api/murmur/v1"
	seyerrs "github.com/jdholdren/murmur/internal/errors"
	"github.com/jdholdren/murmur/internal/serverutil"
)

func (s *Server) getFollowing(w http.ResponseWriter, r *http.Request) error {
	followees := s.core.Followees(r.Context(), pathUser(r, "userID"))
	return serverutil.WriteJSON(w, http.StatusOK, murmurv1.Following{Following: followees})
}

// 204 when the user follows followeeID, 404 otherwise.
func (s *Server) getFollowingOne(w http.ResponseWriter, r *http.Request) error {
	if !s.core.Follows(pathUser(r, "userID"), pathUser(r, "followeeID")) {
		return seyerrs.E("not following", http.StatusNotFound)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) putFollowing(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx      = r.Context()
		follower = pathUser(r, "userID")
		followee = pathUser(r, "followeeID")
	)

	unlock := s.edges.lock(follower)
	defer unlock()

	s.core.Follow(ctx, follower, followee)
	if s.journal != nil {
		if err := s.journal.InsertSubscription(ctx, follower, followee); err != nil {
			slog.ErrorContext(ctx, "error journaling follow", "error", err, "followee_id", followee)
			return err
		}
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) deleteFollowing(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx      = r.Context()
		follower = pathUser(r, "userID")
		followee = pathUser(r, "followeeID")
	)

	unlock := s.edges.lock(follower)
	defer unlock()

	s.core.Unfollow(ctx, follower, followee)
	// The core keeps self edges, so the journal does too.
	if s.journal != nil && follower != followee {
		if err := s.journal.DeleteSubscription(ctx, follower, followee); err != nil {
			slog.ErrorContext(ctx, "error journaling unfollow", "error", err, "followee_id", followee)
			return err
		}
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
