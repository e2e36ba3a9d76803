package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MegaShinySnivy/mc-packer/cmd/mcpacker/output"
	"github.com/MegaShinySnivy/mc-packer/config"
	"github.com/MegaShinySnivy/mc-packer/graph"
	"github.com/MegaShinySnivy/mc-packer/isolate"
)

// NewFindErrorCommand creates the "find-error" command.
func NewFindErrorCommand(console *output.Console, opts *Options) *cobra.Command {
	var (
		signature  string
		runCommand string
	)

	cmd := &cobra.Command{
		Use:   "find-error",
		Short: "Isolate the mod or mod pair causing a runtime error",
		Long: `Find-error repeatedly launches the game with subsets of the pack
enabled, scanning the log files for the given error signature, until the
smallest set of mods that reproduces the error is known. Mods are disabled
by renaming their jars; everything is re-enabled when the search ends.

The launch command comes from runCommand in .mcpacker.yaml unless --command
is given.

Examples:
  mcpacker find-error --signature "Mixin apply failed"
  mcpacker find-error --signature "NullPointerException" --command "./launch.sh --headless"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFindError(cmd, console, opts, signature, runCommand)
		},
	}

	cmd.Flags().StringVar(&signature, "signature", "", "Error text to search the log files for")
	cmd.Flags().StringVar(&runCommand, "command", "", "Launch command, overriding the instance configuration")
	_ = cmd.MarkFlagRequired("signature")

	return cmd
}

func runFindError(cmd *cobra.Command, console *output.Console, opts *Options, signature, runCommand string) error {
	log := opts.logger()

	pack, cfg, err := loadPack(opts, log)
	if err != nil {
		return err
	}
	pack.Validate()

	command := cfg.RunCommand
	if runCommand != "" {
		command = strings.Fields(runCommand)
	}
	if len(command) == 0 {
		return fmt.Errorf("no launch command: set runCommand in %s or pass --command", config.FileName)
	}

	components := graph.Build(graph.NewContext(), pack, cfg.PlatformSet())
	if len(components) == 0 {
		return fmt.Errorf("no mods to isolate over")
	}
	console.Info("Partitioned %d mods into %d dependency components.", len(pack.Mods), len(components))

	iso := &isolate.Isolator{
		Oracle: &isolate.ExecOracle{
			Command:   command,
			Instance:  pack.Instance,
			LogsDir:   cfg.LogsDir,
			LogFiles:  cfg.LogFiles,
			Signature: signature,
			Log:       log,
		},
		Switcher: &isolate.PackSwitcher{Pack: pack},
		Log:      log,
	}

	report, err := iso.Isolate(cmd.Context(), components)
	if err != nil {
		return err
	}

	console.Detail("Session %s finished after %d runs.", report.Session, report.Runs)
	printIsolation(console, report)
	return nil
}

func printIsolation(console *output.Console, report *isolate.Report) {
	switch report.Outcome {
	case isolate.NoFault:
		console.Success("The error did not reproduce in any configuration. Nothing to isolate.")

	case isolate.SinglePackage:
		console.Header("Culprit found after %d runs:", report.Runs)
		console.Printf("  %s\n", report.Mods[0])

	case isolate.NodeGroup:
		console.Header("Culprit group found after %d runs (these mods require each other):", report.Runs)
		for _, mod := range report.Mods {
			console.Printf("  %s\n", mod)
		}

	case isolate.PairConflict:
		console.Header("Pair conflict found after %d runs (each is harmless alone):", report.Runs)
		for _, mod := range report.Mods {
			console.Printf("  %s\n", mod)
		}

	case isolate.Ambiguous:
		console.Warning("Could not narrow below %d mods after %d runs:", len(report.Mods), report.Runs)
		for _, mod := range report.Mods {
			console.Printf("  %s\n", mod)
		}
	}
}
