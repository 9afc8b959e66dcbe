package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/murmur/internal/murmur"
)

func TestLoad_Testdata(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			sc, err := Load(path)
			require.NoError(t, err)

			res := Run(context.Background(), sc)
			assert.True(t, res.Passed(), "failures: %v", res.Failures)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			content: "name: [",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "unknown field",
			content: "name: x\nstep:\n  - op: feed\n    user: a\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			content: "steps:\n  - op: feed\n    user: a\n",
			wantErr: "name is required",
		},
		{
			name:    "no steps",
			content: "name: x\n",
			wantErr: "steps list is required",
		},
		{
			name:    "negative feed size",
			content: "name: x\nfeed_size: -1\nsteps:\n  - op: feed\n    user: a\n",
			wantErr: "feed_size must not be negative",
		},
		{
			name:    "unknown op",
			content: "name: x\nsteps:\n  - op: repost\n    user: a\n",
			wantErr: `steps[0]: unknown op "repost"`,
		},
		{
			name:    "missing user",
			content: "name: x\nsteps:\n  - op: feed\n",
			wantErr: "steps[0]: user is required",
		},
		{
			name:    "publish without item",
			content: "name: x\nsteps:\n  - op: publish\n    user: a\n",
			wantErr: "steps[0]: publish needs an item",
		},
		{
			name:    "follow without target",
			content: "name: x\nsteps:\n  - op: follow\n    user: a\n",
			wantErr: "steps[0]: follow needs a target",
		},
		{
			name:    "expect on publish",
			content: "name: x\nsteps:\n  - op: publish\n    user: a\n    item: i\n    expect: [i]\n",
			wantErr: "steps[0]: expect only applies to feed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_RecordsObservations(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "small_window.yaml"))
	require.NoError(t, err)

	res := Run(context.Background(), sc)
	require.True(t, res.Passed())
	require.Len(t, res.Feeds, 2)

	assert.Equal(t, Observation{
		Step:    5,
		User:    "bob",
		Items:   []murmur.Item{{ID: "a2", Sequence: 3}, {ID: "b1", Sequence: 2}},
		Checked: true,
		Passed:  true,
	}, res.Feeds[0])

	assert.False(t, res.Feeds[1].Checked)
	assert.Equal(t, []murmur.Item{{ID: "a2", Sequence: 3}, {ID: "a1", Sequence: 1}}, res.Feeds[1].Items)
}

func TestRun_ReportsMismatch(t *testing.T) {
	sc, err := Parse([]byte(`
name: wrong
steps:
  - op: publish
    user: a
    item: a1
  - op: feed
    user: a
    expect: [a2]
  - op: feed
    user: b
    expect: []
`))
	require.NoError(t, err)

	res := Run(context.Background(), sc)
	assert.False(t, res.Passed())
	assert.Equal(t, []string{"step 2: feed of a was [a1], expected [a2]"}, res.Failures)
	assert.False(t, res.Feeds[0].Passed)
	assert.True(t, res.Feeds[1].Passed)
}

func TestRun_RunsAreIsolated(t *testing.T) {
	sc, err := Parse([]byte("name: x\nsteps:\n  - op: publish\n    user: a\n    item: a1\n  - op: feed\n    user: a\n"))
	require.NoError(t, err)

	first := Run(context.Background(), sc)
	second := Run(context.Background(), sc)
	assert.Equal(t, first, second, "every run starts from sequence zero")
}
