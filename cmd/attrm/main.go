package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/mikebijl/attrm/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		color.New(color.FgHiRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
