package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Omarmeks89/edl-src/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.Run(ctx, os.Exit, os.Args[1:])

	stop()

	if err != nil {
		cli.Report(os.Stderr, err)
		os.Exit(1)
	}
}
