// cmd/mcpacker/main.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MegaShinySnivy/mc-packer/cmd/mcpacker/cli"
	"github.com/MegaShinySnivy/mc-packer/cmd/mcpacker/commands"
)

// Version information (set via ldflags during build)
var (
	version = "0.0.0-dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date
	cli.SetupVersion()

	cli.AddCommand(commands.NewListCommand(cli.Console, cli.Options))
	cli.AddCommand(commands.NewValidateCommand(cli.Console, cli.Options))
	cli.AddCommand(commands.NewWhyDependsCommand(cli.Console, cli.Options))
	cli.AddCommand(commands.NewFindErrorCommand(cli.Console, cli.Options))

	// Interrupt leaves disabled jars behind; exit loudly so the operator
	// knows to re-run validate or re-enable by hand.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		os.Exit(130) // 128 + SIGINT
	}()

	if err := cli.Execute(); err != nil {
		// Print error to stderr since SilenceErrors is true in rootCmd
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
