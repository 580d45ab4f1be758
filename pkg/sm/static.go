// SPDX-License-Identifier: BSD-3-Clause

package sm

import "github.com/google/uuid"

// Storage declares the array sizes of a statically-created descriptor,
// typically as a package-level var fixed at compile time. It holds sizes
// only; NewStaticSM hands them to NewSM, which allocates the arrays.
type Storage struct {
	ProperStates int
	ChoiceStates int
	Transitions  int
	Actions      int
	Guards       int
}

// NewStaticSM initializes a fresh descriptor using storage's declared sizes.
// It returns nil if the declared sizes are illegal, the same failure
// contract as NewSM.
func NewStaticSM(storage Storage) *Descriptor {
	return NewSM(storage.ProperStates, storage.ChoiceStates, storage.Transitions, storage.Actions, storage.Guards)
}

// NewStaticDerivedSM initializes a derived descriptor sharing parent's
// topology, with its action and guard tables backed by storage's declared
// sizes instead of sizes copied from parent. Because the caller's
// compile-time storage can declare a size that no longer matches the base
// it derives from, this constructor validates parity itself: a mismatched
// Actions count sets ErrWrongNOfActions, a mismatched Guards count sets
// ErrWrongNOfGuards, in both cases on the returned descriptor rather than
// returning nil, the same way other configuration-phase errors are
// reported through ErrorCode instead of a null return. NewDerivedSM cannot
// hit this path because it always sizes its tables from parent directly.
func NewStaticDerivedSM(parent *Descriptor, storage Storage) *Descriptor {
	if parent == nil {
		return nil
	}
	d := &Descriptor{
		topo:     parent.topo,
		actions:  make([]Action, storage.Actions),
		guards:   make([]Guard, storage.Guards),
		embedded: append([]*Descriptor(nil), parent.embedded...),
		id:       uuid.New(),
	}
	if storage.Actions != len(parent.actions) {
		d.errCode = ErrWrongNOfActions
		return d
	}
	if storage.Guards != len(parent.guards) {
		d.errCode = ErrWrongNOfGuards
		return d
	}
	copy(d.actions, parent.actions)
	copy(d.guards, parent.guards)
	return d
}
