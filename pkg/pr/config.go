// SPDX-License-Identifier: BSD-3-Clause

package pr

// AddActionNode declares action node id (1-based) with its action (nil
// resolves to the dummy action) and reserves the single slot in the shared
// flow array for its one outgoing flow. Only meaningful on a fresh
// descriptor.
func (d *Descriptor) AddActionNode(id int, action Action) {
	if id < 1 || id > d.topo.nActionNodes {
		d.errCode = ErrIllegalSize
		return
	}
	idx := id - 1
	if d.topo.actionNodes[idx].filled {
		d.errCode = ErrDuplicateNode
		return
	}
	outIdx := d.nextFlowCursor(1)
	if outIdx < 0 {
		d.errCode = ErrTooManyFlows
		return
	}
	d.topo.actionNodes[idx] = actionNode{
		filled:    true,
		actionIdx: d.findOrAddAction(action),
		outFlow:   outIdx,
	}
}

// AddDecisionNode declares decision node id (1-based) with nOutFlows >= 2
// outgoing flows, reserved the same way an action node's single flow is.
func (d *Descriptor) AddDecisionNode(id int, nOutFlows int) {
	if id < 1 || id > d.topo.nDecisionNodes || nOutFlows < 2 {
		d.errCode = ErrIllegalOutCnt
		return
	}
	idx := id - 1
	if d.topo.decisionNodes[idx].filled {
		d.errCode = ErrDuplicateNode
		return
	}
	outIdx := d.nextFlowCursor(nOutFlows)
	if outIdx < 0 {
		d.errCode = ErrTooManyFlows
		return
	}
	d.topo.decisionNodes[idx] = decisionNode{filled: true, outIdx: outIdx, outCnt: nOutFlows}
}

// nextFlowCursor recovers the next unreserved flow slot by scanning already
// filled ranges, the same cursor-free approach pkg/sm uses for transitions.
// Slot 0 is always reserved for the initial flow.
func (d *Descriptor) nextFlowCursor(n int) int {
	cursor := 1
	for _, a := range d.topo.actionNodes {
		if a.filled {
			cursor = maxInt(cursor, a.outFlow+1)
		}
	}
	for _, dn := range d.topo.decisionNodes {
		if dn.filled {
			cursor = maxInt(cursor, dn.outIdx+dn.outCnt)
		}
	}
	if cursor+n > len(d.topo.flows) {
		return -1
	}
	return cursor
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// AddInitialFlow defines flow 0, the sole outgoing flow of the procedure's
// initial node. It may be called exactly once per fresh descriptor.
func (d *Descriptor) AddInitialFlow(dest int, guard Guard) {
	if d.topo.initialSet {
		d.errCode = ErrDuplicateNode
		return
	}
	if err := d.validateDestination(dest); err != nil {
		d.errCode = *err
		return
	}
	d.topo.flows[0] = flowRec{
		filled: true,
		dest:   dest,
		guard:  d.findOrAddGuard(guard),
	}
	d.topo.initialSet = true
	d.flowCnt++
}

// AddFlow adds a control flow out of source (a positive action-node id, or
// the negation of a decision-node id) to dest (0 = Final, +k action node,
// -k decision node), filling the next unused slot in source's reserved
// range in declaration order.
func (d *Descriptor) AddFlow(source, dest int, guard Guard) {
	outIdx, outCnt, fillSlot, ok := d.sourceRange(source)
	if !ok {
		d.errCode = ErrIllegalSource
		return
	}
	if err := d.validateDestination(dest); err != nil {
		d.errCode = *err
		return
	}
	n := *fillSlot
	if n >= outCnt {
		d.errCode = ErrTooManyFlows
		return
	}
	d.topo.flows[outIdx+n] = flowRec{
		filled: true,
		dest:   dest,
		guard:  d.findOrAddGuard(guard),
	}
	*fillSlot++
	d.flowCnt++
}

func (d *Descriptor) sourceRange(source int) (outIdx, outCnt int, fillSlot *int, ok bool) {
	if source > 0 && source <= d.topo.nActionNodes {
		idx := source - 1
		if !d.topo.actionNodes[idx].filled {
			return 0, 0, nil, false
		}
		return d.topo.actionNodes[idx].outFlow, 1, &d.topo.actionFill[idx], true
	}
	if source < 0 && -source <= d.topo.nDecisionNodes {
		idx := -source - 1
		if !d.topo.decisionNodes[idx].filled {
			return 0, 0, nil, false
		}
		return d.topo.decisionNodes[idx].outIdx, d.topo.decisionNodes[idx].outCnt, &d.topo.decisionFill[idx], true
	}
	return 0, 0, nil, false
}

func (d *Descriptor) validateDestination(dest int) *ErrorCode {
	if dest == Final {
		return nil
	}
	if dest > 0 && dest <= d.topo.nActionNodes {
		return nil
	}
	if dest < 0 && -dest <= d.topo.nDecisionNodes {
		return nil
	}
	e := ErrIllegalDestination
	return &e
}

// OverrideAction replaces every use of old with replacement in this
// descriptor's action table. It fails with ErrUndefAction if old is not
// present. Only meaningful on a derived descriptor.
func (d *Descriptor) OverrideAction(old, replacement Action) error {
	if !d.IsDerived() {
		d.errCode = ErrNotDerived
		return ErrCheckFailed
	}
	for i, existing := range d.actions {
		if existing != nil && identity(existing, old) {
			d.actions[i] = replacement
			return nil
		}
	}
	d.errCode = ErrUndefAction
	return ErrCheckFailed
}

// OverrideGuard replaces every use of old with replacement. Slot 0 (the dummy
// true guard) can never be overridden.
func (d *Descriptor) OverrideGuard(old, replacement Guard) error {
	if !d.IsDerived() {
		d.errCode = ErrNotDerived
		return ErrCheckFailed
	}
	for i := 1; i < len(d.guards); i++ {
		existing := d.guards[i]
		if existing != nil && identity(existing, old) {
			d.guards[i] = replacement
			return nil
		}
	}
	d.errCode = ErrUndefGuard
	return ErrCheckFailed
}
