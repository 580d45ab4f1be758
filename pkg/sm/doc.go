// SPDX-License-Identifier: BSD-3-Clause

// Package sm implements a hierarchical, UML-style state machine engine for
// behavioural models: proper states with entry/do/exit actions, choice
// pseudo-states resolved immediately via guards, embedded (nested) state
// machines, and derivation — a new descriptor that shares a parent's
// topology while owning its own action table, guard table and embedded-SM
// table.
//
// # Topology vs. extension
//
// A descriptor is split into a base, the topology (states, choices,
// transitions, laid out as parallel arrays addressed by small integer
// indices) and an extension (the action table, the guard table, the
// embedded-SM table, the current position, the two execution counters, the
// sticky error code, and the user data pointer). A fresh descriptor, created
// with NewSM, owns both. A derived descriptor, created with NewDerivedSM,
// shares its parent's topology pointer and owns only a fresh extension
// seeded with copies of the parent's tables — TransCnt() == 0 identifies it.
//
// # Configuration
//
//	d := sm.NewSM(1, 0, 2, 4, 2)
//	d.AddProperState(1, entryFn, doFn, exitFn, 1)
//	d.AddInitialTransition(1, nil)
//	d.AddTransition(1, sm.FPS, 1, nil, flagGuard)
//	if err := d.Check(); err != nil {
//		log.Fatal(d.ErrorCode())
//	}
//	d.SetUserData(myData)
//	d.Start()
//	d.Execute(1)
//
// # Errors
//
// Configuration and structural problems set a sticky ErrorCode on the
// descriptor rather than unwinding through a returned error chain; query it
// with ErrorCode after a Check, Start or Execute call that returns a non-nil
// error. Engines never throw.
//
// # Action and guard identity
//
// Actions and guards are deduplicated into their tables by code pointer
// (reflect.Value.Pointer), the Go analogue of comparing C function pointers.
// Two closures generated from the same literal — e.g. a factory function
// returning func(d *Descriptor) { ... } for different callers — share one
// code address and collapse into the same slot. Give each callback its own
// top-level function or its own closure literal when it must occupy a
// distinct slot.
package sm
