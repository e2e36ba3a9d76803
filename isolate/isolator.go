package isolate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MegaShinySnivy/mc-packer/graph"
	"github.com/MegaShinySnivy/mc-packer/modpack"
	"github.com/MegaShinySnivy/mc-packer/observability"
)

// ErrToggleFailed indicates the on-disk enable/disable state could not be
// applied. The isolation run cannot continue; operator intervention is
// required. Distinct from an oracle run that produced no verdict.
var ErrToggleFailed = errors.New("failed to toggle mod state")

// Oracle runs the host application once against the current on-disk state
// and reports whether the target error reproduced. A non-nil error means the
// run produced no verdict at all, never "did not reproduce".
type Oracle interface {
	Run(ctx context.Context) (bool, error)
}

// Switcher applies the full desired enable/disable state: every listed mod
// disabled, everything else enabled. State is re-applied from scratch before
// each oracle call, never incrementally diffed.
type Switcher interface {
	Apply(disabled []*modpack.Mod) error
}

// PackSwitcher applies disable state through a pack's jar renames.
type PackSwitcher struct {
	Pack *modpack.Pack
}

// Apply implements Switcher.
func (s *PackSwitcher) Apply(disabled []*modpack.Mod) error {
	set := make(map[string]bool, len(disabled))
	for _, mod := range disabled {
		set[mod.ModID] = true
	}
	return s.Pack.ApplyDisabled(set)
}

// Outcome classifies an isolation result.
type Outcome int

const (
	// NoFault means no run reproduced the error, or the error persisted
	// with every candidate disabled.
	NoFault Outcome = iota

	// SinglePackage means one mod alone reproduces the error.
	SinglePackage

	// NodeGroup means a cycle-collapsed group of mods reproduces the error;
	// the group cannot be split further.
	NodeGroup

	// PairConflict means the error needs two mods from different components
	// enabled at once.
	PairConflict

	// Ambiguous means a guilty component was found but no single mod or pair
	// could be pinned down.
	Ambiguous
)

// String returns a short name for the outcome.
func (o Outcome) String() string {
	switch o {
	case NoFault:
		return "no-fault"
	case SinglePackage:
		return "single-package"
	case NodeGroup:
		return "node-group"
	case PairConflict:
		return "pair-conflict"
	case Ambiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Report is the result of one isolation session.
type Report struct {
	Outcome Outcome

	// Session identifies this isolation run in logs.
	Session string

	// Runs counts host application runs performed.
	Runs int

	// Component is the guilty component, when one was found.
	Component *graph.Graph

	// Mods are the implicated mods: one for SinglePackage, the collapsed
	// group for NodeGroup, both members for PairConflict.
	Mods []*modpack.Mod
}

// Isolator drives the multi-round elimination protocol over a component
// partition.
type Isolator struct {
	Oracle   Oracle
	Switcher Switcher
	Log      observability.Logger
}

// session tracks per-run state so an Isolator can be reused.
type session struct {
	iso  *Isolator
	id   string
	log  observability.Logger
	runs int
}

// Isolate finds the minimal set of mods responsible for the target error.
//
// Round one bisects over components. Round two bisects within the guilty
// component's atomic units. Round three distinguishes a single bad mod from
// a pairwise incompatibility by re-testing with only the implicated mods
// enabled. All mods are re-enabled before returning.
func (iso *Isolator) Isolate(ctx context.Context, components []*graph.Graph) (*Report, error) {
	log := iso.Log
	if log == nil {
		log = observability.NewNullLogger()
	}

	id := uuid.NewString()
	s := &session{
		iso: iso,
		id:  id,
		log: log.ForContext("Session", id),
	}

	report, err := s.run(ctx, components)

	// Leave the pack fully enabled no matter how the session ended.
	if restoreErr := iso.Switcher.Apply(nil); restoreErr != nil && err == nil {
		err = fmt.Errorf("%w: restoring enabled state: %v", ErrToggleFailed, restoreErr)
	}

	if report != nil {
		report.Session = s.id
		report.Runs = s.runs
	}
	return report, err
}

func (s *session) run(ctx context.Context, components []*graph.Graph) (*Report, error) {
	n := len(components)
	s.log.Info("Isolating error across {Components} components", n)

	// Round one: which component.
	idx, found, err := Bisect(ctx, n, func(ctx context.Context, from int) (bool, error) {
		return s.observe(ctx, modsOf(components[from:]))
	})
	if err != nil {
		return &Report{Outcome: NoFault}, err
	}
	if !found {
		s.log.Info("Error never reproduced; nothing to isolate")
		return &Report{Outcome: NoFault}, nil
	}

	guilty := components[idx]
	s.log.Info("Component with {Mods} mods implicated", guilty.ModCount())

	// Round two: which atomic unit inside the component. The rest of the
	// pack stays enabled so a partner in another component keeps the error
	// alive while the guilty unit is narrowed down.
	nodes := guilty.Nodes
	nodeIdx, nodeFound, err := Bisect(ctx, len(nodes), func(ctx context.Context, from int) (bool, error) {
		var disabled []*modpack.Mod
		for _, node := range nodes[from:] {
			disabled = append(disabled, node.Mods...)
		}
		return s.observe(ctx, disabled)
	})
	if err != nil {
		return &Report{Outcome: Ambiguous, Component: guilty}, err
	}
	if !nodeFound {
		// The component reproduces only as a whole.
		return &Report{Outcome: Ambiguous, Component: guilty, Mods: guilty.Mods()}, nil
	}

	suspect := nodes[nodeIdx]

	// Round three: is the suspect sufficient on its own? Enable only the
	// suspect and re-run.
	reproduced, err := s.observe(ctx, disabledExcept(components, suspect.Mods))
	if err != nil {
		return &Report{Outcome: Ambiguous, Component: guilty, Mods: suspect.Mods}, err
	}
	if reproduced {
		outcome := SinglePackage
		if len(suspect.Mods) > 1 {
			outcome = NodeGroup
		}
		return &Report{Outcome: outcome, Component: guilty, Mods: suspect.Mods}, nil
	}

	// Not sufficient alone: the error needs a partner. Bisect the other
	// components with the suspect pinned enabled.
	s.log.Info("Suspect {Suspect} is not sufficient alone; searching for a conflict partner",
		modIDs(suspect.Mods))
	return s.findPartner(ctx, components, idx, suspect)
}

// findPartner locates the second half of a pairwise incompatibility: the
// suspect stays enabled while the remaining components are bisected.
func (s *session) findPartner(ctx context.Context, components []*graph.Graph, guiltyIdx int, suspect *graph.Node) (*Report, error) {
	guilty := components[guiltyIdx]
	others := withoutComponent(components, guiltyIdx)
	rest := withoutNode(guilty, suspect)

	partnerIdx, found, err := Bisect(ctx, len(others), func(ctx context.Context, from int) (bool, error) {
		disabled := append(modsOf(others[from:]), rest...)
		return s.observe(ctx, disabled)
	})
	if err != nil {
		return &Report{Outcome: Ambiguous, Component: guilty, Mods: suspect.Mods}, err
	}
	if !found {
		return &Report{Outcome: Ambiguous, Component: guilty, Mods: suspect.Mods}, nil
	}

	partner := others[partnerIdx]

	// Narrow the partner component to one atomic unit, suspect still enabled.
	partnerNodes := partner.Nodes
	pIdx, pFound, err := Bisect(ctx, len(partnerNodes), func(ctx context.Context, from int) (bool, error) {
		disabled := modsOf(withoutComponent(components, guiltyIdx, indexOf(components, partner)))
		disabled = append(disabled, rest...)
		for _, node := range partnerNodes[from:] {
			disabled = append(disabled, node.Mods...)
		}
		return s.observe(ctx, disabled)
	})
	if err != nil || !pFound {
		return &Report{Outcome: Ambiguous, Component: guilty, Mods: suspect.Mods}, err
	}

	partnerNode := partnerNodes[pIdx]

	// Confirm the pair: only the two implicated units enabled.
	pairMods := append(append([]*modpack.Mod{}, suspect.Mods...), partnerNode.Mods...)
	reproduced, err := s.observe(ctx, disabledExcept(components, pairMods))
	if err != nil {
		return &Report{Outcome: Ambiguous, Component: guilty, Mods: pairMods}, err
	}
	if !reproduced {
		return &Report{Outcome: Ambiguous, Component: guilty, Mods: pairMods}, nil
	}

	s.log.Info("Pair conflict confirmed between {First} and {Second}",
		modIDs(suspect.Mods), modIDs(partnerNode.Mods))
	return &Report{Outcome: PairConflict, Component: guilty, Mods: pairMods}, nil
}

// observe applies the full disable set, then runs the oracle once.
func (s *session) observe(ctx context.Context, disabled []*modpack.Mod) (bool, error) {
	if err := s.iso.Switcher.Apply(disabled); err != nil {
		return false, fmt.Errorf("%w: %v", ErrToggleFailed, err)
	}

	s.runs++
	s.log.Debug("Run {Run}: {Disabled} mods disabled", s.runs, len(disabled))

	reproduced, err := s.iso.Oracle.Run(ctx)
	if err != nil {
		return false, fmt.Errorf("oracle run %d: %w", s.runs, err)
	}
	return reproduced, nil
}

func modsOf(graphs []*graph.Graph) []*modpack.Mod {
	var mods []*modpack.Mod
	for _, g := range graphs {
		mods = append(mods, g.Mods()...)
	}
	return mods
}

func modIDs(mods []*modpack.Mod) []string {
	ids := make([]string, len(mods))
	for i, m := range mods {
		ids[i] = m.ModID
	}
	return ids
}

// withoutComponent returns components minus the ones at the given indices.
func withoutComponent(components []*graph.Graph, skip ...int) []*graph.Graph {
	skipSet := make(map[int]bool, len(skip))
	for _, i := range skip {
		skipSet[i] = true
	}
	var out []*graph.Graph
	for i, g := range components {
		if !skipSet[i] {
			out = append(out, g)
		}
	}
	return out
}

// withoutNode returns the mods of a component outside the given node.
func withoutNode(g *graph.Graph, skip *graph.Node) []*modpack.Mod {
	var mods []*modpack.Mod
	for _, node := range g.Nodes {
		if node != skip {
			mods = append(mods, node.Mods...)
		}
	}
	return mods
}

// disabledExcept returns every mod in the partition except the kept ones.
func disabledExcept(components []*graph.Graph, kept []*modpack.Mod) []*modpack.Mod {
	keep := make(map[string]bool, len(kept))
	for _, m := range kept {
		keep[m.ModID] = true
	}
	var disabled []*modpack.Mod
	for _, g := range components {
		for _, m := range g.Mods() {
			if !keep[m.ModID] {
				disabled = append(disabled, m)
			}
		}
	}
	return disabled
}

func indexOf(components []*graph.Graph, target *graph.Graph) int {
	for i, g := range components {
		if g == target {
			return i
		}
	}
	return -1
}
