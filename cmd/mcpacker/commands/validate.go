package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MegaShinySnivy/mc-packer/cmd/mcpacker/output"
)

// NewValidateCommand creates the "validate" command.
func NewValidateCommand(console *output.Console, opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every mod's dependency constraints",
		Long: `Validate loads every mod jar in the instance and checks each declared
dependency: required dependencies must be installed and every installed
dependency's version must fall inside the declared range.

Version mismatches are reported on the mod whose version is wrong for its
consumers; missing dependencies on the mod that requires them.

Examples:
  mcpacker validate
  mcpacker validate -i ~/instances/skyfactory
  mcpacker validate --override-version jei=10.2.1
  mcpacker validate --lie-depends waystones`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(console, opts)
		},
	}
}

func runValidate(console *output.Console, opts *Options) error {
	pack, _, err := loadPack(opts, opts.logger())
	if err != nil {
		return err
	}

	report := pack.Validate()

	for _, note := range report.PackErrors {
		console.Warning("%s", note)
	}

	if report.Passed {
		console.Success("All %d mods satisfy their dependency constraints.", len(pack.Mods))
		return nil
	}

	for _, issue := range report.Mods {
		console.Header("%s", issue.Mod)
		for _, note := range issue.Errors {
			console.Printf("  %s\n", note)
		}
	}

	return fmt.Errorf("validation failed: %d mods with unsatisfied constraints", len(report.Mods))
}
