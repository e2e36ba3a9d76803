package graph

import (
	"github.com/MegaShinySnivy/mc-packer/modpack"
	"github.com/MegaShinySnivy/mc-packer/version"
)

// Build partitions a pack's mods into connected dependency components,
// excluding platform mods (the game and its loader). It expects a prior
// Validate pass so the pack's dependent edges are populated.
//
// Required-but-missing dependencies are included as single-mod placeholder
// components so missing-dependency reports can still attribute to a
// component; optional missing dependencies contribute nothing and are
// skipped, as are all edges to platform mods.
func Build(ctx *Context, pack *modpack.Pack, platform map[string]bool) []*Graph {
	for _, mod := range pack.Mods {
		if platform[mod.ModID] {
			continue
		}
		ctx.AddRoot(mod)
	}

	for _, mod := range pack.Mods {
		if platform[mod.ModID] {
			continue
		}
		for _, dep := range mod.Dependencies {
			if !dep.Required || platform[dep.ModID] {
				continue
			}
			if _, installed := pack.Mods[dep.ModID]; installed {
				continue
			}
			if ctx.Node(dep.ModID) == nil {
				ctx.AddRoot(modpack.Placeholder(dep.ModID, version.Wild()))
			}
		}
	}

	// One sweep over every edge is enough: endpoints are always re-resolved
	// through the context, and each merge strictly reduces the number of
	// distinct graphs, which is bounded by the mod count.
	for _, mod := range pack.Mods {
		if platform[mod.ModID] {
			continue
		}
		for _, dep := range mod.Dependencies {
			mergeEdge(ctx, pack, mod, dep.ModID)
		}
		for _, dep := range pack.Dependents(mod.ModID) {
			mergeEdge(ctx, pack, mod, dep.ModID)
		}
	}

	return ctx.Partition()
}

// mergeEdge joins the graphs at both ends of one dependency or dependent
// edge, and collapses the two nodes into one atomic unit when the mods
// require each other directly.
func mergeEdge(ctx *Context, pack *modpack.Pack, mod *modpack.Mod, otherID string) {
	if otherID == mod.ModID {
		return
	}

	other := ctx.Node(otherID)
	if other == nil {
		// Platform mod, or an optional dependency that is not installed.
		return
	}

	a := ctx.Graph(mod.ModID)
	b := ctx.Graph(otherID)
	if a != b {
		ctx.MergeGraphs(a, b)
	}

	if mutuallyRequired(pack, mod.ModID, otherID) {
		ctx.MergeNodes(ctx.Node(mod.ModID), ctx.Node(otherID))
	}
}

// mutuallyRequired reports whether two installed mods depend on each other
// directly.
func mutuallyRequired(pack *modpack.Pack, aID, bID string) bool {
	return dependsOn(pack, aID, bID) && dependsOn(pack, bID, aID)
}

func dependsOn(pack *modpack.Pack, fromID, toID string) bool {
	from, ok := pack.Mods[fromID]
	if !ok {
		return false
	}
	for _, dep := range from.Dependencies {
		if dep.ModID == toID {
			return true
		}
	}
	return false
}
