// SPDX-License-Identifier: BSD-3-Clause

package sm

import "testing"

type oneStateData struct {
	counter1 int
	flag1    bool
}

func buildOneStateSM(t *testing.T, data *oneStateData) *Descriptor {
	t.Helper()
	d := NewSM(1, 0, 2, 5, 2)
	if d == nil {
		t.Fatal("NewSM returned nil")
	}
	entry := func(d *Descriptor) { d.UserData().(*oneStateData).counter1 += 1 }
	do := func(d *Descriptor) { d.UserData().(*oneStateData).counter1 += 2 }
	exit := func(d *Descriptor) { d.UserData().(*oneStateData).counter1 += 4 }
	guard := func(d *Descriptor) bool { return d.UserData().(*oneStateData).flag1 }

	d.AddProperState(1, entry, do, exit, 1)
	d.AddInitialTransition(1, nil)
	d.AddTransition(1, FPS, 1, func(d *Descriptor) { d.UserData().(*oneStateData).counter1 += 1 }, guard)

	d.SetUserData(data)
	if err := d.Check(); err != nil {
		t.Fatalf("check failed: %v (%s)", err, d.ErrorCode())
	}
	return d
}

func TestOneStateScenario(t *testing.T) {
	data := &oneStateData{}
	d := buildOneStateSM(t, data)

	if err := d.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if data.counter1 != 3 {
		t.Fatalf("after start counter1 = %d, want 3", data.counter1)
	}
	if d.CurrentState() != 1 {
		t.Fatalf("current state = %d, want 1", d.CurrentState())
	}

	data.flag1 = false
	if err := d.Execute(1); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if data.counter1 != 5 {
		t.Fatalf("after no-op execute counter1 = %d, want 5", data.counter1)
	}

	data.flag1 = true
	if err := d.Execute(1); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if data.counter1 != 10 {
		t.Fatalf("after transition counter1 = %d, want 10", data.counter1)
	}
	if d.CurrentState() != 0 {
		t.Fatalf("current state = %d, want 0 (stopped at FPS)", d.CurrentState())
	}
}

func TestExecutionCountersAcrossStartStop(t *testing.T) {
	data := &oneStateData{}
	d := buildOneStateSM(t, data)

	if err := d.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if d.ExecCount() != 0 || d.StateExecCount() != 0 {
		t.Fatalf("counters after start = %d/%d, want 0/0", d.ExecCount(), d.StateExecCount())
	}

	// flag1 stays false, so both executes stay in S1.
	_ = d.Execute(1)
	_ = d.Execute(1)
	if d.ExecCount() != 2 || d.StateExecCount() != 2 {
		t.Fatalf("counters = %d/%d, want 2/2", d.ExecCount(), d.StateExecCount())
	}

	if err := d.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if d.ExecCount() != 2 || d.StateExecCount() != 2 {
		t.Fatalf("counters must survive stop, got %d/%d", d.ExecCount(), d.StateExecCount())
	}

	if err := d.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if d.ExecCount() != 0 || d.StateExecCount() != 0 {
		t.Fatalf("counters after restart = %d/%d, want 0/0", d.ExecCount(), d.StateExecCount())
	}
}

func TestDerivedSMSharesTopologyAndOverrides(t *testing.T) {
	base := NewSM(2, 0, 2, 3, 2)
	var calls []string
	action1 := func(d *Descriptor) { calls = append(calls, "base-entry") }
	action2 := func(d *Descriptor) { calls = append(calls, "base-trans") }

	base.AddProperState(1, action1, nil, nil, 1)
	base.AddProperState(2, nil, nil, nil, 0)
	base.AddInitialTransition(1, nil)
	base.AddTransition(1, 2, 7, action2, nil)
	if err := base.Check(); err != nil {
		t.Fatalf("base check: %v (%s)", err, base.ErrorCode())
	}

	derived := NewDerivedSM(base)
	if !derived.IsDerived() {
		t.Fatal("expected derived descriptor")
	}
	if derived.topo != base.topo {
		t.Fatal("derived descriptor must share base topology pointer")
	}

	overridden := func(d *Descriptor) { calls = append(calls, "derived-entry") }
	if err := derived.OverrideAction(action1, overridden); err != nil {
		t.Fatalf("override: %v (%s)", err, derived.ErrorCode())
	}

	calls = nil
	if err := derived.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(calls) != 1 || calls[0] != "derived-entry" {
		t.Fatalf("expected override to run, got %v", calls)
	}

	// base is untouched by the override.
	calls = nil
	if err := base.Start(); err != nil {
		t.Fatalf("base start: %v", err)
	}
	if len(calls) != 1 || calls[0] != "base-entry" {
		t.Fatalf("expected base action untouched, got %v", calls)
	}
}

func TestOverrideUndefinedActionFails(t *testing.T) {
	base := NewSM(1, 0, 1, 2, 1)
	base.AddProperState(1, nil, nil, nil, 0)
	base.AddInitialTransition(1, nil)
	if err := base.Check(); err != nil {
		t.Fatalf("base check: %v", err)
	}
	derived := NewDerivedSM(base)
	err := derived.OverrideAction(func(d *Descriptor) {}, func(d *Descriptor) {})
	if err == nil {
		t.Fatal("expected error overriding an action never used by base")
	}
	if derived.ErrorCode() != ErrUndefAction {
		t.Fatalf("error code = %s, want undefAction", derived.ErrorCode())
	}
}

func TestChoiceResolutionFirstTrueGuardWins(t *testing.T) {
	d := NewSM(3, 1, 5, 3, 3)
	var path []int
	markEntered2 := func(d *Descriptor) { path = append(path, 2) }
	markEntered3 := func(d *Descriptor) { path = append(path, 3) }

	d.AddProperState(1, nil, nil, nil, 1)
	d.AddProperState(2, markEntered2, nil, nil, 1)
	d.AddProperState(3, markEntered3, nil, nil, 0)
	d.AddChoiceState(1, 2)

	d.AddInitialTransition(-1, nil)
	d.AddTransition(-1, 2, 0, nil, func(d *Descriptor) bool { return false })
	d.AddTransition(-1, 3, 0, nil, func(d *Descriptor) bool { return true })
	d.AddTransition(1, FPS, 9, nil, nil)
	d.AddTransition(2, 1, 9, nil, nil) // makes state 1 reachable so Check passes

	if err := d.Check(); err != nil {
		t.Fatalf("check: %v (%s)", err, d.ErrorCode())
	}
	if err := d.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if d.CurrentState() != 3 {
		t.Fatalf("current state = %d, want 3 (first true guard)", d.CurrentState())
	}
	if len(path) != 1 || path[0] != 3 {
		t.Fatalf("expected entry into state 3 only, got %v", path)
	}
}

func TestChoiceCycleSetsTransErr(t *testing.T) {
	d := NewSM(1, 2, 5, 1, 1)
	d.AddProperState(1, nil, nil, nil, 0)
	d.AddChoiceState(1, 2)
	d.AddChoiceState(2, 2)

	d.AddInitialTransition(-1, nil)
	d.AddTransition(-1, -2, 0, nil, nil)
	d.AddTransition(-1, 1, 0, nil, nil)
	d.AddTransition(-2, -1, 0, nil, nil)
	d.AddTransition(-2, 1, 0, nil, nil)

	if err := d.Check(); err != nil {
		t.Fatalf("check: %v (%s)", err, d.ErrorCode())
	}
	if err := d.Start(); err == nil {
		t.Fatal("expected start to fail on choice cycle")
	}
	if d.ErrorCode() != ErrTransErr {
		t.Fatalf("error code = %s, want transErr", d.ErrorCode())
	}
	if d.IsStarted() {
		t.Fatal("descriptor must remain stopped after a failed choice resolution")
	}
}

func TestCheckDetectsUnreachableState(t *testing.T) {
	d := NewSM(2, 0, 2, 1, 1)
	d.AddProperState(1, nil, nil, nil, 1)
	d.AddProperState(2, nil, nil, nil, 0)
	d.AddInitialTransition(1, nil)
	d.AddTransition(1, 1, 0, nil, nil) // self-loop, never reaches state 2

	if err := d.Check(); err == nil {
		t.Fatal("expected check to fail")
	}
	if d.ErrorCode() != ErrUnreachable {
		t.Fatalf("error code = %s, want unreachable", d.ErrorCode())
	}
}

func TestEmbeddedSMLifecycle(t *testing.T) {
	var trace []string

	inner := NewSM(1, 0, 1, 3, 1)
	inner.AddProperState(1, func(d *Descriptor) { trace = append(trace, "inner-entry") }, nil,
		func(d *Descriptor) { trace = append(trace, "inner-exit") }, 0)
	inner.AddInitialTransition(1, nil)
	if err := inner.Check(); err != nil {
		t.Fatalf("inner check: %v", err)
	}

	outer := NewSM(1, 0, 2, 4, 1)
	outer.AddProperState(1,
		func(d *Descriptor) { trace = append(trace, "outer-entry") },
		func(d *Descriptor) { trace = append(trace, "outer-do") },
		func(d *Descriptor) { trace = append(trace, "outer-exit") },
		1)
	outer.AddInitialTransition(1, nil)
	outer.AddTransition(1, FPS, 5, nil, nil)
	if err := outer.EmbedSM(1, inner); err != nil {
		t.Fatalf("embed: %v", err)
	}
	if err := outer.Check(); err != nil {
		t.Fatalf("outer check: %v (%s)", err, outer.ErrorCode())
	}

	if err := outer.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	// Entry order: host entry action, then the embedded machine starts, then
	// the host's do action runs for the first time.
	want := []string{"outer-entry", "inner-entry", "outer-do"}
	if !equalStrings(trace, want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	if !inner.IsStarted() {
		t.Fatal("embedded SM must be started once its host state is entered")
	}

	trace = nil
	if err := outer.Execute(5); err != nil {
		t.Fatalf("execute: %v", err)
	}
	want = []string{"inner-exit", "outer-exit"}
	if !equalStrings(trace, want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	if inner.IsStarted() {
		t.Fatal("embedded SM must be stopped before the host's exit action")
	}
}

func TestStaticDerivedSMDetectsTableSizeMismatch(t *testing.T) {
	base := NewSM(1, 0, 1, 2, 2)
	base.AddProperState(1, nil, nil, nil, 0)
	base.AddInitialTransition(1, nil)
	if err := base.Check(); err != nil {
		t.Fatalf("base check: %v (%s)", err, base.ErrorCode())
	}

	if d := NewStaticDerivedSM(base, Storage{Actions: 1, Guards: 2}); d.ErrorCode() != ErrWrongNOfActions {
		t.Fatalf("error code = %s, want wrongNOfActions", d.ErrorCode())
	}
	if d := NewStaticDerivedSM(base, Storage{Actions: 2, Guards: 3}); d.ErrorCode() != ErrWrongNOfGuards {
		t.Fatalf("error code = %s, want wrongNOfGuards", d.ErrorCode())
	}

	d := NewStaticDerivedSM(base, Storage{Actions: 2, Guards: 2})
	if d.ErrorCode() != ErrNone {
		t.Fatalf("error code = %s, want none for matching sizes", d.ErrorCode())
	}
	if !d.IsDerived() || d.topo != base.topo {
		t.Fatal("expected a derived descriptor sharing base's topology")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
