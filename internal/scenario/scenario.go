// Package scenario runs scripted sequences of publishes, follows and feed reads
// against a fresh feed core and checks the feeds they produce.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jdholdren/murmur/internal/murmur"
)

// Step operations.
const (
	OpPublish  = "publish"
	OpFollow   = "follow"
	OpUnfollow = "unfollow"
	OpFeed     = "feed"
)

// Scenario is a script of operations run in order.
type Scenario struct {
	// Name identifies the scenario in output.
	Name string `yaml:"name"`

	Description string `yaml:"description,omitempty"`

	// FeedSize overrides the default feed size when positive.
	FeedSize int `yaml:"feed_size,omitempty"`

	Steps []Step `yaml:"steps"`
}

// Step is one operation. Which fields matter depends on Op:
//   - publish: User, Item
//   - follow, unfollow: User, Target
//   - feed: User, and Expect when the feed should be checked
type Step struct {
	Op     string        `yaml:"op"`
	User   murmur.UserID `yaml:"user"`
	Target murmur.UserID `yaml:"target,omitempty"`
	Item   murmur.ItemID `yaml:"item,omitempty"`

	// Expect lists the item ids the feed should hold, most recent first. An
	// empty list expects an empty feed; leaving it out skips the check.
	Expect []murmur.ItemID `yaml:"expect,omitempty"`
}

// Load reads and parses the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return sc, nil
}

// Parse decodes a scenario, rejecting unknown fields and malformed steps.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validate(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &sc, nil
}

func validate(sc *Scenario) error {
	if sc.Name == "" {
		return errors.New("name is required")
	}
	if sc.FeedSize < 0 {
		return errors.New("feed_size must not be negative")
	}
	if len(sc.Steps) == 0 {
		return errors.New("steps list is required and must be non-empty")
	}

	for i, step := range sc.Steps {
		if step.User == "" {
			return fmt.Errorf("steps[%d]: user is required", i)
		}

		switch step.Op {
		case OpPublish:
			if step.Item == "" {
				return fmt.Errorf("steps[%d]: publish needs an item", i)
			}
		case OpFollow, OpUnfollow:
			if step.Target == "" {
				return fmt.Errorf("steps[%d]: %s needs a target", i, step.Op)
			}
		case OpFeed:
		default:
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}

		if step.Op != OpFeed && step.Expect != nil {
			return fmt.Errorf("steps[%d]: expect only applies to feed", i)
		}
	}

	return nil
}
