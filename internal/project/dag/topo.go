package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
	"implicits/internal/project"
)

type Topo struct {
	Order   []ModuleID   // linear order (present modules only)
	Batches [][]ModuleID // waves of mutually independent modules
	Cyclic  bool
	Cycles  []ModuleID // nodes left over inside a cycle
}

func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]ModuleID, 0, nodeCount),
		Batches: make([][]ModuleID, 0),
	}

	active := 0
	for i := range nodeCount {
		if g.Present[i] {
			active++
		}
	}

	current := make([]ModuleID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		if indeg[i] == 0 {
			mID, err := safecast.Conv[ModuleID](i)
			if err != nil {
				panic(fmt.Errorf("module id overflow: %w", err))
			}
			current = append(current, mID)
		}
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := make([]ModuleID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]ModuleID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[int(id)] {
				if !g.Present[int(to)] {
					continue
				}
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := range nodeCount {
			if !g.Present[i] {
				continue
			}
			if indeg[i] > 0 {
				mID, err := safecast.Conv[ModuleID](i)
				if err != nil {
					panic(fmt.Errorf("module id overflow: %w", err))
				}
				topo.Cycles = append(topo.Cycles, mID)
			}
		}
		slices.Sort(topo.Cycles)
	}

	return topo
}

// ComputeModuleHashes computes ModuleHash for every present node:
// H( content || dep1 || dep2 ... ), where dep* are each dependency's
// already-computed hash. It walks topo.Order, so it's only correct for an
// acyclic graph; for a cyclic graph it returns without computing any
// hash, so every node's ModuleHash is left as it was.
func ComputeModuleHashes(idx ModuleIndex, g Graph, slots []ModuleSlot, topo *Topo) {
    if topo == nil || topo.Cyclic {
        return // cyclic graphs are deliberately skipped; stabilization could be added later
    }
    // Kahn's order doesn't guarantee parents come before children in the
    // direction we need, but Edges[from] = deps (to), so walking
    // topo.Order in REVERSE is correct: by the time we reach a node, every
    // dependency it points to has already been processed.
    for i := len(topo.Order) - 1; i >= 0; i-- {
        id := topo.Order[i]
        slot := &slots[int(id)]
        if !slot.Present {
            continue
        }
        // Dependency hashes in deterministic order (Edges is already sorted).
        deps := make([]project.Digest, 0, len(g.Edges[int(id)]))
        for _, to := range g.Edges[int(id)] {
            if !g.Present[int(to)] {
                continue
            }
            deps = append(deps, slots[int(to)].Meta.ModuleHash)
        }
        slot.Meta.ModuleHash = project.Combine(slot.Meta.ContentHash, deps...)
    }
}
