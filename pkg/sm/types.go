// SPDX-License-Identifier: BSD-3-Clause

package sm

// Trigger identifies the event passed to Execute. The framework treats it as
// an opaque application-assigned integer; this module never interprets it.
type Trigger int

// Action runs against a descriptor's user data when a state is entered,
// exited, or a transition fires. Table slot 0 is always the dummy action and
// is never invoked with anything other than a no-op.
type Action func(d *Descriptor)

// Guard is consulted before taking a transition or resolving a choice. Table
// slot 0 is always the dummy guard and always evaluates true.
type Guard func(d *Descriptor) bool

// FPS is the destination value meaning the Final Pseudo-State.
const FPS = 0

func dummyAction(*Descriptor) {}

func dummyGuard(*Descriptor) bool { return true }

// properState is the topology-owned description of a state: which slice of
// the transition array is its outgoing range, and which action-table slots
// run on entry, on every do-pass, and on exit.
type properState struct {
	filled                         bool
	outIdx, outCnt                 int
	entryAction, doAction, exitAct int
}

// choiceState is the topology-owned description of a choice pseudo-state.
type choiceState struct {
	filled         bool
	outIdx, outCnt int
}

// transitionRec is one entry of the shared transition array. guard is -1
// until AddTransition/AddInitialTransition fills the reserved slot.
type transitionRec struct {
	filled  bool
	dest    int
	trigger Trigger
	action  int
	guard   int
}

// topology is the base, derivation-shared part of a descriptor: the node and
// transition arrays plus the bookkeeping cursors used while a fresh
// descriptor is being configured. It never changes once Check succeeds, so
// sharing a *topology pointer across derived descriptors is safe without
// further synchronization.
type topology struct {
	nProperStates int
	nChoiceStates int
	states        []properState
	choices       []choiceState
	transitions   []transitionRec

	stateFill  []int
	choiceFill []int

	nActions int
	nGuards  int

	initialSet bool
	checked    bool
}

func newTopology(nProperStates, nChoiceStates, nTransitions, nActions, nGuards int) (*topology, error) {
	if nProperStates < 1 || nTransitions < 1 || nActions < 1 || nGuards < 1 || nChoiceStates < 0 {
		return nil, ErrInvalidConfig
	}
	t := &topology{
		nProperStates: nProperStates,
		nChoiceStates: nChoiceStates,
		states:        make([]properState, nProperStates),
		choices:       make([]choiceState, nChoiceStates),
		transitions:   make([]transitionRec, nTransitions),
		stateFill:     make([]int, nProperStates),
		choiceFill:    make([]int, nChoiceStates),
		nActions:      nActions,
		nGuards:       nGuards,
	}
	for i := range t.transitions {
		t.transitions[i].guard = -1
	}
	return t, nil
}
