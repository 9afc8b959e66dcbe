package cli

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/murmur/internal/database"
	"github.com/jdholdren/murmur/internal/murmur"
	"github.com/jdholdren/murmur/internal/sqlite"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRunCommand_Golden(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{name: "run_basic_text", args: []string{"run", "testdata/basic.yaml"}, wantCode: ExitSuccess},
		{name: "run_basic_json", args: []string{"run", "testdata/basic.yaml", "--format", "json"}, wantCode: ExitSuccess},
		{name: "run_failing_json", args: []string{"run", "testdata/failing.yaml", "--format", "json"}, wantCode: ExitFailure},
		{name: "run_mixed_text", args: []string{"run", "testdata/basic.yaml", "testdata/failing.yaml"}, wantCode: ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			assert.Equal(t, tt.wantCode, GetExitCode(err))

			newGoldie(t).Assert(t, tt.name, []byte(out))
		})
	}
}

func TestRunCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing args", args: []string{"run"}, wantErr: "requires at least 1 arg"},
		{name: "missing file", args: []string{"run", "testdata/nope.yaml"}, wantErr: "failed to load scenario"},
		{name: "invalid scenario", args: []string{"run", "testdata/invalid.yaml"}, wantErr: `unknown op "repost"`},
		{name: "bad format", args: []string{"run", "testdata/basic.yaml", "--format", "xml"}, wantErr: `invalid format "xml"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Empty(t, out)
		})
	}
}

// Writes a small journal: alice and bob publish twice each, bob follows alice.
func writeJournal(t *testing.T) string {
	t.Helper()

	var (
		ctx  = context.Background()
		path = filepath.Join(t.TempDir(), "journal.db")
	)
	dbx, err := database.Open(ctx, path)
	require.NoError(t, err)
	defer dbx.Close()

	repo := sqlite.New(dbx)
	for _, row := range []struct {
		user murmur.UserID
		item murmur.Item
	}{
		{"alice", murmur.Item{ID: "a1", Sequence: 1}},
		{"bob", murmur.Item{ID: "b1", Sequence: 2}},
		{"alice", murmur.Item{ID: "a2", Sequence: 3}},
		{"bob", murmur.Item{ID: "b2", Sequence: 4}},
	} {
		require.NoError(t, repo.InsertItem(ctx, row.user, row.item))
	}
	require.NoError(t, repo.InsertSubscription(ctx, "bob", "alice"))

	return path
}

func TestJournalFeed_Golden(t *testing.T) {
	path := writeJournal(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "journal_feed_text", args: []string{"journal", "feed", "--db", path, "--feed-size", "3", "bob"}},
		{name: "journal_feed_json", args: []string{"journal", "feed", "--db", path, "--feed-size", "3", "--format", "json", "bob"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)

			newGoldie(t).Assert(t, tt.name, []byte(out))
		})
	}
}

func TestJournalFeed_UnknownUser(t *testing.T) {
	path := writeJournal(t)

	out, err := execute(t, "journal", "feed", "--db", path, "carol")
	require.NoError(t, err)
	assert.Equal(t, "feed of carol (0 items)\n", out)
}

func TestJournalFeed_Errors(t *testing.T) {
	t.Run("missing db flag", func(t *testing.T) {
		_, err := execute(t, "journal", "feed", "bob")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"db" not set`)
	})

	t.Run("missing journal", func(t *testing.T) {
		_, err := execute(t, "journal", "feed", "--db", filepath.Join(t.TempDir(), "nope.db"), "bob")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "journal not found")
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "x")))
	assert.Equal(t, ExitCommandError, GetExitCode(assert.AnError))
}

func TestJournalFeed_Verbose(t *testing.T) {
	path := writeJournal(t)
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"journal", "feed", "--db", path, "-v", "bob"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "restored journal up to sequence 4")
	assert.Contains(t, errOut.String(), "bob has published 2 items")
	assert.NotContains(t, out.String(), "published", "verbose lines stay off stdout")
}
