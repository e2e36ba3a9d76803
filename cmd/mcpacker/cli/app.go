// cmd/mcpacker/cli/app.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/MegaShinySnivy/mc-packer/cmd/mcpacker/commands"
	"github.com/MegaShinySnivy/mc-packer/cmd/mcpacker/output"
)

var rootCmd = &cobra.Command{
	Use:   "mcpacker",
	Short: "Minecraft mod pack dependency diagnostics",
	Long: `mcpacker inspects an instance's mod jars, validates every declared
dependency constraint, and isolates the mod (or mod pair) responsible for a
runtime error by bisecting over the pack's dependency components.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Console.SetVerbosity(output.ParseVerbosity(Options.Verbosity))
		if Options.NoColor {
			Console.SetColors(false)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Show help when no command is provided
		_ = cmd.Help()
	},
}

// Console is the global console for CLI commands
var Console *output.Console

// Options holds the persistent flag values shared by all commands.
var Options = &commands.Options{}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	Console = output.DefaultConsole()

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&Options.Instance, "instance", "i", ".", "Instance directory containing the mods folder")
	pf.StringVar(&Options.Verbosity, "verbosity", "normal", "Display verbosity (quiet, normal, detailed, diagnostic)")
	pf.BoolVar(&Options.NoColor, "no-color", false, "Disable colored output")
	pf.StringSliceVar(&Options.Overrides, "override-version", nil, "Pretend a mod has a different version, id=version (repeatable or comma-separated)")
	pf.StringSliceVar(&Options.Lies, "lie-depends", nil, "Relax a mod's dependency ranges to whatever is installed (repeatable or comma-separated)")
}

// SetupVersion configures version information after variables are set
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
