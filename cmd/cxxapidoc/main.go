// Package main provides the cxxapidoc command.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/example/cxxapidoc/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()

	if err == nil {
		return
	}

	var usage *cli.UsageError
	if errors.As(err, &usage) {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n%s", usage.Err, usage.Usage)
		os.Exit(2)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
