// SPDX-License-Identifier: BSD-3-Clause

package sm

import (
	"fmt"

	"github.com/qmuntal/stateless"
)

// ToGraph renders a DOT graph of the descriptor's topology for inspection.
// It builds a throwaway stateless.StateMachine purely to reuse its renderer — stateless
// has no notion of choice pseudo-states, embedded descriptors or guards, so
// this is a read-only export, never the execution path.
func (d *Descriptor) ToGraph() string {
	machine := stateless.NewStateMachine(nodeLabel(d.topo.transitions[0].dest))

	seenState := make(map[int]bool)
	seenChoice := make(map[int]bool)

	var walk func(dest int)
	walk = func(dest int) {
		switch {
		case dest == FPS:
			return
		case dest > 0:
			if seenState[dest] {
				return
			}
			seenState[dest] = true
			st := d.topo.states[dest-1]
			cfg := machine.Configure(nodeLabel(dest))
			for i := 0; i < st.outCnt; i++ {
				tr := d.topo.transitions[st.outIdx+i]
				cfg.Permit(fmt.Sprintf("t%d", tr.trigger), nodeLabel(tr.dest))
				walk(tr.dest)
			}
		default:
			id := -dest
			if seenChoice[id] {
				return
			}
			seenChoice[id] = true
			c := d.topo.choices[id-1]
			cfg := machine.Configure(nodeLabel(dest))
			for i := 0; i < c.outCnt; i++ {
				tr := d.topo.transitions[c.outIdx+i]
				cfg.Permit(fmt.Sprintf("t%d", tr.trigger), nodeLabel(tr.dest))
				walk(tr.dest)
			}
		}
	}
	walk(d.topo.transitions[0].dest)

	return machine.ToGraph()
}

func nodeLabel(dest int) string {
	switch {
	case dest == FPS:
		return "FPS"
	case dest > 0:
		return fmt.Sprintf("S%d", dest)
	default:
		return fmt.Sprintf("C%d", -dest)
	}
}
