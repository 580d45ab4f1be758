// SPDX-License-Identifier: BSD-3-Clause

package pr

// Start moves a stopped descriptor to the initial node (curNode == -1) and
// resets both execution counters. Unlike an SM's Start, it does not itself
// evaluate any flow — the first Execute call does that.
func (d *Descriptor) Start() error {
	if d.IsStarted() {
		return nil
	}
	d.curNode = -1
	d.procExecCnt = 0
	d.nodeExecCnt = 0
	return nil
}

// Stop halts the procedure, returning curNode to 0 (Stopped). Idempotent.
func (d *Descriptor) Stop() error {
	if !d.IsStarted() {
		return nil
	}
	d.curNode = 0
	return nil
}

// Run is Start, one Execute, then Stop, a convenience for one-shot
// procedure invocations.
func (d *Descriptor) Run() error {
	if err := d.Start(); err != nil {
		return err
	}
	execErr := d.Execute()
	if err := d.Stop(); err != nil && execErr == nil {
		execErr = err
	}
	return execErr
}

// Execute performs a single sweep: from curNode's sole outgoing flow, it
// keeps advancing through action nodes (and transparently through any chain
// of decision nodes) for as long as the outgoing guard evaluates true,
// stopping the procedure if it reaches the Final node. It halts without
// advancing once a guard evaluates false, or if a decision node's flows are
// all false (or cycle back on themselves), in which case ErrFlowErr is set
// and the procedure remains at the last action node the sweep reached before
// the failing decision.
func (d *Descriptor) Execute() error {
	if !d.IsStarted() {
		return ErrNotStarted
	}
	d.procExecCnt++
	moved := false

	for {
		var flowIdx int
		if d.curNode == -1 {
			flowIdx = 0
		} else {
			flowIdx = d.topo.actionNodes[d.curNode-1].outFlow
		}
		flow := d.topo.flows[flowIdx]
		if !d.guardTrue(flow.guard) {
			break
		}

		dest, ok := d.resolveDecisions(flow.dest)
		if !ok {
			return ErrCheckFailed
		}
		if dest == Final {
			d.curNode = 0
			return nil
		}

		d.curNode = dest
		d.nodeExecCnt = 0
		moved = true
		d.runAction(d.topo.actionNodes[dest-1].actionIdx)
	}

	if !moved {
		d.nodeExecCnt++
	}
	return nil
}

// resolveDecisions follows dest through any chain of decision nodes, taking
// the first true-guarded outgoing flow at each in declaration order. A cycle
// through the same decision node twice, or a decision node with no true
// guard, sets ErrFlowErr and reports failure without running anything.
func (d *Descriptor) resolveDecisions(dest int) (int, bool) {
	visited := make(map[int]bool)
	for dest < 0 {
		id := -dest
		if visited[id] {
			d.errCode = ErrFlowErr
			return 0, false
		}
		visited[id] = true
		dn := d.topo.decisionNodes[id-1]
		found := false
		for i := 0; i < dn.outCnt && !found; i++ {
			f := d.topo.flows[dn.outIdx+i]
			if d.guardTrue(f.guard) {
				dest = f.dest
				found = true
			}
		}
		if !found {
			d.errCode = ErrFlowErr
			return 0, false
		}
	}
	return dest, true
}

func (d *Descriptor) runAction(idx int) {
	if fn := d.actions[idx]; fn != nil {
		fn(d)
	}
}

func (d *Descriptor) guardTrue(idx int) bool {
	if idx < 0 {
		return false
	}
	if fn := d.guards[idx]; fn != nil {
		return fn(d)
	}
	return true
}
