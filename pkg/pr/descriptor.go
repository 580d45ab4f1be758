// SPDX-License-Identifier: BSD-3-Clause

package pr

import (
	"reflect"

	"github.com/google/uuid"
)

// Descriptor is a procedure instance: a topology reference plus its own
// action table, guard table, current node, execution counters, error code
// and user data. A fresh descriptor owns its topology; a derived descriptor
// shares its parent's topology pointer and is identified by FlowCnt() == 0.
type Descriptor struct {
	topo *topology

	actions []Action
	guards  []Guard

	curNode     int
	flowCnt     int // number of flows declared by THIS descriptor; 0 means derived
	procExecCnt int
	nodeExecCnt int
	errCode     ErrorCode
	userData    any
	id          uuid.UUID
}

// ID returns the descriptor's correlation handle, assigned at creation.
func (d *Descriptor) ID() uuid.UUID { return d.id }

// NewPR allocates a fresh procedure descriptor with the given array sizes.
// It returns nil if any size argument is illegal.
func NewPR(nActionNodes, nDecisionNodes, nFlows, nActions, nGuards int) *Descriptor {
	t, err := newTopology(nActionNodes, nDecisionNodes, nFlows, nActions, nGuards)
	if err != nil {
		return nil
	}
	d := &Descriptor{
		topo:    t,
		actions: make([]Action, nActions),
		guards:  make([]Guard, nGuards),
		id:      uuid.New(),
	}
	d.actions[0] = dummyAction
	d.guards[0] = dummyGuard
	return d
}

// NewDerivedPR creates a descriptor sharing parent's topology, with a fresh
// extension seeded from copies of parent's action and guard tables.
func NewDerivedPR(parent *Descriptor) *Descriptor {
	if parent == nil {
		return nil
	}
	d := &Descriptor{
		topo:     parent.topo,
		actions:  append([]Action(nil), parent.actions...),
		guards:   append([]Guard(nil), parent.guards...),
		userData: parent.userData,
		id:       uuid.New(),
	}
	return d
}

// Release is a no-op placeholder kept for symmetry with static/manual
// allocation schemes; Go's garbage collector reclaims the descriptor.
func (d *Descriptor) Release() {}

// ReleaseDerived is a no-op; releasing a derived descriptor must never touch
// its shared base topology.
func (d *Descriptor) ReleaseDerived() {}

// FlowCnt reports the number of flows this descriptor itself declared. A
// derived descriptor always reports 0.
func (d *Descriptor) FlowCnt() int { return d.flowCnt }

// IsDerived reports whether this descriptor shares a parent's topology.
func (d *Descriptor) IsDerived() bool { return d.flowCnt == 0 }

func (d *Descriptor) SetUserData(v any) { d.userData = v }
func (d *Descriptor) UserData() any     { return d.userData }

func (d *Descriptor) ErrorCode() ErrorCode { return d.errCode }
func (d *Descriptor) ClearError()          { d.errCode = ErrNone }

func (d *Descriptor) CurrentNode() int { return d.curNode }
func (d *Descriptor) IsStarted() bool  { return d.curNode != 0 }

func (d *Descriptor) ExecCount() int     { return d.procExecCnt }
func (d *Descriptor) NodeExecCount() int { return d.nodeExecCnt }

func (d *Descriptor) findOrAddAction(fn Action) int {
	if fn == nil {
		return 0
	}
	for i, have := range d.actions {
		if i == 0 {
			continue
		}
		if have != nil && identity(have, fn) {
			return i
		}
	}
	for i, have := range d.actions {
		if i == 0 {
			continue
		}
		if have == nil {
			d.actions[i] = fn
			return i
		}
	}
	d.errCode = ErrTooManyActions
	return 0
}

func (d *Descriptor) findOrAddGuard(fn Guard) int {
	if fn == nil {
		return 0
	}
	for i, have := range d.guards {
		if i == 0 {
			continue
		}
		if have != nil && identity(have, fn) {
			return i
		}
	}
	for i, have := range d.guards {
		if i == 0 {
			continue
		}
		if have == nil {
			d.guards[i] = fn
			return i
		}
	}
	d.errCode = ErrTooManyGuards
	return 0
}

func identity[F any](have, want F) bool {
	return reflect.ValueOf(have).Pointer() == reflect.ValueOf(want).Pointer()
}
