package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jdholdren/murmur/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	cancel()
	os.Exit(cli.GetExitCode(err))
}
