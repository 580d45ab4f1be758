// SPDX-License-Identifier: BSD-3-Clause

package sm

import (
	"reflect"

	"github.com/google/uuid"
)

// Descriptor is a configured, executable state machine. A fresh descriptor
// owns its topology outright; a derived descriptor shares the topology
// pointer of its parent (TransCnt() == 0 identifies it) and owns only its own
// action table, guard table, embedded-SM table and runtime position.
type Descriptor struct {
	topo *topology

	actions  []Action
	guards   []Guard
	embedded []*Descriptor

	currentState int // 0 = stopped, otherwise the active proper state id
	transCnt     int // number of transitions declared by THIS descriptor; 0 means derived

	smExecCnt    int
	stateExecCnt int
	errCode      ErrorCode

	userData any

	// id is a per-descriptor correlation handle for log lines and trace
	// spans; the engine never looks at it.
	id uuid.UUID
}

// ID returns the descriptor's correlation handle, assigned at creation.
func (d *Descriptor) ID() uuid.UUID { return d.id }

// NewSM creates a fresh state machine descriptor with its own topology.
// It returns nil if any size parameter is illegal, so creation failure is
// visible immediately at the call site instead of an idiomatic-Go error
// return, because the rest of the
// configuration surface is built around checking ErrorCode rather than
// propagating a Go error from every call.
func NewSM(nProperStates, nChoiceStates, nTransitions, nActions, nGuards int) *Descriptor {
	topo, err := newTopology(nProperStates, nChoiceStates, nTransitions, nActions, nGuards)
	if err != nil {
		return nil
	}
	d := &Descriptor{
		topo:     topo,
		actions:  make([]Action, nActions),
		guards:   make([]Guard, nGuards),
		embedded: make([]*Descriptor, nProperStates),
		id:       uuid.New(),
	}
	d.actions[0] = dummyAction
	d.guards[0] = dummyGuard
	return d
}

// NewDerivedSM creates a descriptor that shares parent's topology and starts
// with a copy of parent's action table, guard table and embedded-SM table.
// Overriding an action or guard on the derivative never affects parent.
func NewDerivedSM(parent *Descriptor) *Descriptor {
	if parent == nil {
		return nil
	}
	d := &Descriptor{
		topo:     parent.topo,
		actions:  append([]Action(nil), parent.actions...),
		guards:   append([]Guard(nil), parent.guards...),
		embedded: append([]*Descriptor(nil), parent.embedded...),
		id:       uuid.New(),
	}
	return d
}

// Release detaches a fresh descriptor's resources. It is a no-op beyond
// letting the garbage collector reclaim the topology once every derivative
// sharing it has also been released; Go's GC makes manual "must not touch
// the base after releasing it" discipline moot, but the method is kept so
// callers porting code from manual-memory sibling APIs have a 1:1 call to
// make.
func (d *Descriptor) Release() {}

// ReleaseDerived is Release's counterpart for derived descriptors; it exists
// for the same porting-symmetry reason and does not touch the shared base.
func (d *Descriptor) ReleaseDerived() { d.Release() }

// TransCnt reports the number of transitions this descriptor itself declared.
// A derived descriptor always reports 0.
func (d *Descriptor) TransCnt() int { return d.transCnt }

// IsDerived reports whether this descriptor shares a parent's topology.
func (d *Descriptor) IsDerived() bool { return d.transCnt == 0 }

// SetUserData attaches the opaque, application-owned data blob that actions
// and guards read and write. The engine never dereferences it.
func (d *Descriptor) SetUserData(v any) { d.userData = v }

// UserData returns the attached user data blob.
func (d *Descriptor) UserData() any { return d.userData }

// ErrorCode returns the sticky error code currently recorded on the
// descriptor. It stays set until a caller-initiated reset; see package doc.
func (d *Descriptor) ErrorCode() ErrorCode { return d.errCode }

// ClearError resets the sticky error code to ErrNone.
func (d *Descriptor) ClearError() { d.errCode = ErrNone }

// CurrentState returns 0 if stopped, otherwise the id of the active proper state.
func (d *Descriptor) CurrentState() int { return d.currentState }

// IsStarted reports whether the descriptor is in the Started state.
func (d *Descriptor) IsStarted() bool { return d.currentState != 0 }

// ExecCount returns the number of Execute invocations since the last Start.
func (d *Descriptor) ExecCount() int { return d.smExecCnt }

// StateExecCount returns the number of Execute invocations since the current
// state was last entered.
func (d *Descriptor) StateExecCount() int { return d.stateExecCnt }

// findOrAddAction returns the table slot holding fn, allocating a new slot if
// fn has not been seen before. A nil fn resolves to the reserved dummy slot.
// On a full table it sets ErrTooManyActions and returns 0 — matching the
// framework's documented dual-signalling convention where AddAction/AddGuard
// return 0 both for "no callback supplied" and for "table full, error set";
// callers distinguish the two by checking ErrorCode afterward.
func (d *Descriptor) findOrAddAction(fn Action) int {
	if fn == nil {
		return 0
	}
	p := reflect.ValueOf(fn).Pointer()
	for i, existing := range d.actions {
		if existing != nil && reflect.ValueOf(existing).Pointer() == p {
			return i
		}
	}
	for i, existing := range d.actions {
		if existing == nil {
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
	p := reflect.ValueOf(fn).Pointer()
	for i, existing := range d.guards {
		if existing != nil && reflect.ValueOf(existing).Pointer() == p {
			return i
		}
	}
	for i := 1; i < len(d.guards); i++ {
		if d.guards[i] == nil {
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
