package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/MegaShinySnivy/mc-packer/cmd/mcpacker/output"
	"github.com/MegaShinySnivy/mc-packer/graph"
	"github.com/MegaShinySnivy/mc-packer/modpack"
)

// NewListCommand creates the "list" command.
func NewListCommand(console *output.Console, opts *Options) *cobra.Command {
	var components bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the instance's installed mods",
		Long: `List every mod found in the instance's mods directory, with its id,
version, and backing jar. Disabled jars are marked.

With --components, mods are grouped into their dependency components, the
same partition find-error bisects over. Mods on one line require each other
and always toggle together.

Examples:
  mcpacker list
  mcpacker list -i ~/instances/skyfactory
  mcpacker list --components`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(console, opts, components)
		},
	}

	cmd.Flags().BoolVar(&components, "components", false, "Group mods by dependency component")

	return cmd
}

func runList(console *output.Console, opts *Options, byComponent bool) error {
	pack, cfg, err := loadPack(opts, opts.logger())
	if err != nil {
		return err
	}

	if byComponent {
		pack.Validate()
		listComponents(console, pack, cfg.PlatformSet())
	} else {
		for _, mod := range sortedMods(pack) {
			marker := ""
			if strings.HasSuffix(mod.Filename, modpack.DisabledSuffix) {
				marker = "  [disabled]"
			}
			console.Printf("%s  (%s)%s\n", mod, mod.Filename, marker)
		}
		console.Info("%d mods.", len(pack.Mods))
	}

	for _, note := range pack.Errors {
		console.Warning("%s", note)
	}
	return nil
}

func listComponents(console *output.Console, pack *modpack.Pack, platform map[string]bool) {
	parts := graph.Build(graph.NewContext(), pack, platform)

	for i, g := range parts {
		console.Header("Component %d (%d mods):", i+1, g.ModCount())
		for _, node := range g.Nodes {
			ids := make([]string, len(node.Mods))
			for j, mod := range node.Mods {
				ids[j] = mod.String()
			}
			console.Printf("  %s\n", strings.Join(ids, "  +  "))
		}
	}
	console.Info("%d components.", len(parts))
}
