// Command moonunit runs the test suites linked into it.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/roach88/moonunit/internal/cli"
	_ "github.com/roach88/moonunit/internal/samples"
	"github.com/roach88/moonunit/internal/suite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, &cli.RootOptions{Registry: suite.Default}, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
