package scenario

import (
	"context"
	"fmt"
	"slices"

	"github.com/jdholdren/murmur/internal/murmur"
	"github.com/jdholdren/murmur/internal/sequence"
	"github.com/jdholdren/murmur/internal/timeline"
)

type (
	// Result is everything a run observed.
	Result struct {
		Name     string        `json:"name"`
		Feeds    []Observation `json:"feeds"`
		Failures []string      `json:"failures"`
	}

	// Observation is the feed a feed step read.
	Observation struct {
		Step  int           `json:"step"` // 1-based
		User  murmur.UserID `json:"user"`
		Items []murmur.Item `json:"items"`
		// Checked is false when the step had no expectation.
		Checked bool `json:"checked"`
		Passed  bool `json:"passed"`
	}
)

// Passed reports whether every expectation held.
func (r Result) Passed() bool {
	return len(r.Failures) == 0
}

// Run executes sc against a fresh core. Every feed step is recorded and every
// mismatch against an expectation is listed in Failures.
func Run(ctx context.Context, sc *Scenario) Result {
	svc := timeline.New(sequence.NewClock(), timeline.WithFeedSize(sc.FeedSize))
	res := Result{
		Name:     sc.Name,
		Feeds:    []Observation{},
		Failures: []string{},
	}

	for i, step := range sc.Steps {
		switch step.Op {
		case OpPublish:
			svc.Publish(ctx, step.User, step.Item)
		case OpFollow:
			svc.Follow(ctx, step.User, step.Target)
		case OpUnfollow:
			svc.Unfollow(ctx, step.User, step.Target)
		case OpFeed:
			feed := svc.Feed(ctx, step.User)
			obs := Observation{
				Step:    i + 1,
				User:    step.User,
				Items:   feed,
				Checked: step.Expect != nil,
				Passed:  true,
			}
			if obs.Checked {
				got := itemIDs(feed)
				if !slices.Equal(got, step.Expect) {
					obs.Passed = false
					res.Failures = append(res.Failures, fmt.Sprintf("step %d: feed of %s was %v, expected %v", i+1, step.User, got, step.Expect))
				}
			}
			res.Feeds = append(res.Feeds, obs)
		}
	}

	return res
}

func itemIDs(items []murmur.Item) []murmur.ItemID {
	ids := make([]murmur.ItemID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
