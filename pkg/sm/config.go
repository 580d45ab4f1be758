// SPDX-License-Identifier: BSD-3-Clause

package sm

// AddProperState declares proper state id (1-based) with its entry, do and
// exit actions (any may be nil, resolving to the dummy action) and reserves
// nOutTrans contiguous slots in the shared transition array for its outgoing
// transitions. It is only meaningful on a fresh descriptor; calling it on a
// derived descriptor corrupts a topology other descriptors share. The
// configuration surface deliberately does not guard against that misuse, so
// this method trusts the caller to respect it.
func (d *Descriptor) AddProperState(id int, entry, do, exit Action, nOutTrans int) {
	if id < 1 || id > d.topo.nProperStates || nOutTrans < 0 {
		d.errCode = ErrIllegalSize
		return
	}
	idx := id - 1
	if d.topo.states[idx].filled {
		d.errCode = ErrDuplicateState
		return
	}
	outIdx := d.nextTransitionCursor(nOutTrans)
	if outIdx < 0 {
		d.errCode = ErrTooManyTransitions
		return
	}
	d.topo.states[idx] = properState{
		filled:      true,
		outIdx:      outIdx,
		outCnt:      nOutTrans,
		entryAction: d.findOrAddAction(entry),
		doAction:    d.findOrAddAction(do),
		exitAct:     d.findOrAddAction(exit),
	}
}

// AddChoiceState declares choice pseudo-state id (1-based) with nOutTrans >= 2
// outgoing transitions, reserved the same way as a proper state's.
func (d *Descriptor) AddChoiceState(id int, nOutTrans int) {
	if id < 1 || id > d.topo.nChoiceStates || nOutTrans < 2 {
		d.errCode = ErrIllegalOutCnt
		return
	}
	idx := id - 1
	if d.topo.choices[idx].filled {
		d.errCode = ErrDuplicateState
		return
	}
	outIdx := d.nextTransitionCursor(nOutTrans)
	if outIdx < 0 {
		d.errCode = ErrTooManyTransitions
		return
	}
	d.topo.choices[idx] = choiceState{filled: true, outIdx: outIdx, outCnt: nOutTrans}
}

// nextTransitionCursor returns the next unreserved transition slot, or -1 if
// n more slots do not fit. Slot 0 is always
// reserved for the initial transition, so per-state reservation starts at 1.
// The cursor itself doesn't need to live past configuration, so it is
// recovered cheaply by scanning already-filled ranges rather than storing an
// extra field on topology.
func (d *Descriptor) nextTransitionCursor(n int) int {
	cursor := 1
	for _, s := range d.topo.states {
		if s.filled {
			cursor = max(cursor, s.outIdx+s.outCnt)
		}
	}
	for _, c := range d.topo.choices {
		if c.filled {
			cursor = max(cursor, c.outIdx+c.outCnt)
		}
	}
	if cursor+n > len(d.topo.transitions) {
		return -1
	}
	return cursor
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// AddInitialTransition defines transition 0, the transition out of the
// Initial Pseudo-State. It may be called exactly once per fresh descriptor.
func (d *Descriptor) AddInitialTransition(dest int, action Action) {
	if d.topo.initialSet {
		d.errCode = ErrDuplicateState
		return
	}
	if err := d.validateDestination(dest); err != nil {
		d.errCode = *err
		return
	}
	d.topo.transitions[0] = transitionRec{
		filled:  true,
		dest:    dest,
		trigger: 0,
		action:  d.findOrAddAction(action),
		guard:   0,
	}
	d.topo.initialSet = true
	d.transCnt++
}

// AddTransition adds a transition out of source (a proper state id, or the
// negation of a choice id) to dest (0 = FPS, +k proper state, -k choice),
// filling the next unused slot in source's reserved range in declaration
// order — the order that later breaks ties among same-trigger transitions
// and same-choice true guards.
func (d *Descriptor) AddTransition(source, dest int, trigger Trigger, action Action, guard Guard) {
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
		d.errCode = ErrTooManyTransitions
		return
	}
	d.topo.transitions[outIdx+n] = transitionRec{
		filled:  true,
		dest:    dest,
		trigger: trigger,
		action:  d.findOrAddAction(action),
		guard:   d.findOrAddGuard(guard),
	}
	*fillSlot++
	d.transCnt++
}

func (d *Descriptor) sourceRange(source int) (outIdx, outCnt int, fillSlot *int, ok bool) {
	if source > 0 && source <= d.topo.nProperStates {
		idx := source - 1
		if !d.topo.states[idx].filled {
			return 0, 0, nil, false
		}
		return d.topo.states[idx].outIdx, d.topo.states[idx].outCnt, &d.topo.stateFill[idx], true
	}
	if source < 0 && -source <= d.topo.nChoiceStates {
		idx := -source - 1
		if !d.topo.choices[idx].filled {
			return 0, 0, nil, false
		}
		return d.topo.choices[idx].outIdx, d.topo.choices[idx].outCnt, &d.topo.choiceFill[idx], true
	}
	return 0, 0, nil, false
}

func (d *Descriptor) validateDestination(dest int) *ErrorCode {
	if dest == FPS {
		return nil
	}
	if dest > 0 && dest <= d.topo.nProperStates {
		return nil
	}
	if dest < 0 && -dest <= d.topo.nChoiceStates {
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

// EmbedSM binds an embedded descriptor to proper state id, replacing its
// currently-null embedded slot. It fails if the slot is already occupied.
func (d *Descriptor) EmbedSM(id int, embedded *Descriptor) error {
	if id < 1 || id > len(d.embedded) {
		d.errCode = ErrIllegalSize
		return ErrCheckFailed
	}
	if d.embedded[id-1] != nil {
		d.errCode = ErrEmbedOccupied
		return ErrCheckFailed
	}
	d.embedded[id-1] = embedded
	return nil
}
