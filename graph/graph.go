// Package graph partitions a mod pack into connected dependency components
// and collapses mutual-requirement cycles into atomic units.
package graph

import (
	"fmt"
	"sort"

	"github.com/MegaShinySnivy/mc-packer/modpack"
)

// Node is an atomic sub-unit of a component: one or more mods that must be
// enabled and disabled together because they require each other.
type Node struct {
	Mods  []*modpack.Mod
	graph *Graph
}

// Graph is one connected component: an ordered list of Nodes.
type Graph struct {
	Nodes []*Node
}

// ModCount returns the number of mods across all nodes.
func (g *Graph) ModCount() int {
	n := 0
	for _, node := range g.Nodes {
		n += len(node.Mods)
	}
	return n
}

// Mods returns every mod in the graph in node order.
func (g *Graph) Mods() []*modpack.Mod {
	var mods []*modpack.Mod
	for _, node := range g.Nodes {
		mods = append(mods, node.Mods...)
	}
	return mods
}

// Context is the resolution context for one analysis pass. It owns the
// authoritative id->Node and id->Graph indices; every id maps to exactly one
// node and every node belongs to exactly one graph at all times. Contexts
// are pass-scoped and never reused across analysis passes.
//
// Callers must always re-resolve through the context after a merge; holding
// a Graph or Node handle across merges reads absorbed, empty state.
type Context struct {
	nodes  map[string]*Node
	graphs map[string]*Graph
}

// NewContext creates an empty resolution context.
func NewContext() *Context {
	return &Context{
		nodes:  make(map[string]*Node),
		graphs: make(map[string]*Graph),
	}
}

// Node returns the node currently owning a mod id, or nil.
func (c *Context) Node(modID string) *Node { return c.nodes[modID] }

// Graph returns the graph currently owning a mod id, or nil.
func (c *Context) Graph(modID string) *Graph { return c.graphs[modID] }

// AddRoot registers a mod as a fresh single-node graph. Registering the same
// id twice is a programming error and panics: mod ids are unique within an
// analysis pass.
func (c *Context) AddRoot(mod *modpack.Mod) *Graph {
	if _, exists := c.nodes[mod.ModID]; exists {
		panic(fmt.Sprintf("graph: mod id %q already has a node", mod.ModID))
	}

	node := &Node{Mods: []*modpack.Mod{mod}}
	g := &Graph{Nodes: []*Node{node}}
	node.graph = g

	c.nodes[mod.ModID] = node
	c.graphs[mod.ModID] = g
	return g
}

// MergeGraphs moves every node of b into a, updating the id indices for all
// ids b transitively owns, and empties b. Merging a graph with itself is a
// no-op, making the operation idempotent through the index.
func (c *Context) MergeGraphs(a, b *Graph) {
	if a == b {
		return
	}

	for _, node := range b.Nodes {
		node.graph = a
		for _, mod := range node.Mods {
			c.graphs[mod.ModID] = a
		}
		a.Nodes = append(a.Nodes, node)
	}
	b.Nodes = nil
}

// MergeNodes folds b's mods into a, so the mods form one atomic unit. Both
// nodes must already belong to the same graph; the absorbed node is removed
// from it and its mod set emptied.
func (c *Context) MergeNodes(a, b *Node) {
	if a == b {
		return
	}

	for _, mod := range b.Mods {
		a.Mods = append(a.Mods, mod)
		c.nodes[mod.ModID] = a
		c.graphs[mod.ModID] = a.graph
	}
	b.Mods = nil

	g := b.graph
	for i, node := range g.Nodes {
		if node == b {
			g.Nodes = append(g.Nodes[:i], g.Nodes[i+1:]...)
			break
		}
	}
}

// Partition returns the distinct non-empty graphs, smallest first (by mod
// count, then by first mod id for a stable order).
func (c *Context) Partition() []*Graph {
	seen := make(map[*Graph]bool)
	var graphs []*Graph
	for _, node := range c.nodes {
		g := node.graph
		if g == nil || seen[g] || len(g.Nodes) == 0 {
			continue
		}
		seen[g] = true
		graphs = append(graphs, g)
	}

	sort.Slice(graphs, func(i, j int) bool {
		ci, cj := graphs[i].ModCount(), graphs[j].ModCount()
		if ci != cj {
			return ci < cj
		}
		return firstModID(graphs[i]) < firstModID(graphs[j])
	})
	return graphs
}

func firstModID(g *Graph) string {
	min := ""
	for _, node := range g.Nodes {
		for _, mod := range node.Mods {
			if min == "" || mod.ModID < min {
				min = mod.ModID
			}
		}
	}
	return min
}
