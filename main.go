package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/minilang/cli"
	"github.com/ardnew/minilang/cli/cmd"
	"github.com/ardnew/minilang/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err == nil {
		return
	}

	// Script diagnostics are already written to stderr.
	var exit cmd.Exit
	if errors.As(err, &exit) {
		os.Exit(int(exit))
	}

	log.Error("run failed", slog.Any("error", err))
	os.Exit(1)
}
