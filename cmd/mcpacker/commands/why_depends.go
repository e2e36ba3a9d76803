package commands

import (
	"github.com/spf13/cobra"

	"github.com/MegaShinySnivy/mc-packer/cmd/mcpacker/output"
	"github.com/MegaShinySnivy/mc-packer/modpack"
)

// NewWhyDependsCommand creates the "why-depends" command.
func NewWhyDependsCommand(console *output.Console, opts *Options) *cobra.Command {
	var errorsOnly bool

	cmd := &cobra.Command{
		Use:   "why-depends <mod-id>",
		Short: "Explain a mod's dependency edges in both directions",
		Long: `Why-depends shows what a mod requires and which installed mods require
it, with the declared version ranges and whether each constraint is
currently satisfied.

Examples:
  mcpacker why-depends waystones
  mcpacker why-depends balm --errors-only`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhyDepends(console, opts, args[0], errorsOnly)
		},
	}

	cmd.Flags().BoolVar(&errorsOnly, "errors-only", false, "Show only unsatisfied constraints")

	return cmd
}

func runWhyDepends(console *output.Console, opts *Options, modID string, errorsOnly bool) error {
	pack, _, err := loadPack(opts, opts.logger())
	if err != nil {
		return err
	}
	pack.Validate()

	report, err := pack.WhyDepends(modID, errorsOnly)
	if err != nil {
		return err
	}

	console.Header("%s", report.Mod)

	if len(report.Dependencies) > 0 {
		console.Println("Depends on:")
		for _, info := range report.Dependencies {
			printEdge(console, info, info.Required)
		}
	}
	if len(report.Dependents) > 0 {
		console.Println("Required by:")
		for _, info := range report.Dependents {
			printEdge(console, info, false)
		}
	}
	if len(report.Dependencies) == 0 && len(report.Dependents) == 0 {
		if errorsOnly {
			console.Success("No unsatisfied constraints involve %q.", modID)
		} else {
			console.Info("No dependency edges involve %q.", modID)
		}
	}

	return nil
}

func printEdge(console *output.Console, info modpack.DependencyInfo, required bool) {
	status := "ok"
	switch {
	case !info.Installed:
		status = "missing"
	case !info.Satisfied:
		status = "mismatch"
	}

	suffix := ""
	if required {
		suffix = "  (required)"
	}
	console.Printf("  [%s] %s (%s) wants %s%s\n", status, info.Name, info.ModID, info.Ranges, suffix)
}
