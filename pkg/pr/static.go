// SPDX-License-Identifier: BSD-3-Clause

package pr

import "github.com/google/uuid"

// Storage is caller-allocated backing storage for a statically-created
// descriptor, the same convention pkg/sm.Storage offers for state machines.
type Storage struct {
	ActionNodes   int
	DecisionNodes int
	Flows         int
	Actions       int
	Guards        int
}

// NewStaticPR initializes a fresh descriptor using storage's declared sizes.
func NewStaticPR(storage Storage) *Descriptor {
	return NewPR(storage.ActionNodes, storage.DecisionNodes, storage.Flows, storage.Actions, storage.Guards)
}

// NewStaticDerivedPR initializes a derived descriptor sharing parent's
// topology, with its action and guard tables backed by storage's declared
// sizes rather than sizes copied from parent. A mismatched Actions count
// sets ErrWrongNOfActions, a mismatched Guards count sets ErrWrongNOfGuards,
// both on the returned (non-nil) descriptor so callers check it through
// ErrorCode the same way as other configuration-phase errors.
func NewStaticDerivedPR(parent *Descriptor, storage Storage) *Descriptor {
	if parent == nil {
		return nil
	}
	d := &Descriptor{
		topo:     parent.topo,
		actions:  make([]Action, storage.Actions),
		guards:   make([]Guard, storage.Guards),
		userData: parent.userData,
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
