package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/jdholdren/murmur/internal/database"
	"github.com/jdholdren/murmur/internal/murmur"
	"github.com/jdholdren/murmur/internal/sequence"
	"github.com/jdholdren/murmur/internal/sqlite"
	"github.com/jdholdren/murmur/internal/timeline"
)

// JournalOptions holds flags for the journal commands.
type JournalOptions struct {
	*RootOptions
	DB       string
	FeedSize int
}

// FeedOutput is a user's feed rebuilt from a journal.
type FeedOutput struct {
	User  murmur.UserID `json:"user"`
	Items []murmur.Item `json:"items"`
}

func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect a journal written by the api server",
	}
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to the journal database")
	cmd.PersistentFlags().IntVar(&opts.FeedSize, "feed-size", murmur.DefaultFeedSize, "items per feed")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(&cobra.Command{
		Use:   "feed <userID>",
		Short: "Print a user's feed as of the end of the journal",
		Example: `  murmur journal feed --db murmur.db alice
  murmur journal feed --db murmur.db alice --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return journalFeed(cmd, opts, murmur.UserID(args[0]))
		},
	})

	return cmd
}

func journalFeed(cmd *cobra.Command, opts *JournalOptions, user murmur.UserID) error {
	var (
		ctx = cmd.Context()
		out = opts.formatter(cmd)
	)

	// Opening a missing path would create an empty journal.
	if _, err := os.Stat(opts.DB); errors.Is(err, fs.ErrNotExist) {
		return NewExitError(ExitCommandError, fmt.Sprintf("journal not found: %s", opts.DB))
	}

	dbx, err := database.Open(ctx, opts.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer dbx.Close()

	svc := timeline.New(sequence.NewClock(), timeline.WithFeedSize(opts.FeedSize))
	if err := sqlite.Restore(ctx, sqlite.New(dbx), svc); err != nil {
		return WrapExitError(ExitCommandError, "failed to restore journal", err)
	}
	out.VerboseLog("restored journal up to sequence %d", svc.Clock().Current())

	out.VerboseLog("%s has published %d items", user, svc.Published(user))

	feed := svc.Feed(ctx, user)
	if out.JSON() {
		return out.Respond(true, FeedOutput{User: user, Items: feed})
	}

	out.Printf("feed of %s (%d items)", user, len(feed))
	for _, it := range feed {
		out.Printf("%d %s", it.Sequence, it.ID)
	}
	return nil
}
