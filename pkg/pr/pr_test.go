// SPDX-License-Identifier: BSD-3-Clause

package pr

import "testing"

func TestLinearProcedureSingleSweep(t *testing.T) {
	var counter int
	action1 := func(d *Descriptor) { counter += 1 }
	action2 := func(d *Descriptor) { counter += 2 }

	d := NewPR(2, 0, 3, 3, 1)
	if d == nil {
		t.Fatal("NewPR returned nil")
	}
	d.AddActionNode(1, action1)
	d.AddActionNode(2, action2)
	d.AddInitialFlow(1, nil)
	d.AddFlow(1, 2, nil)
	d.AddFlow(2, Final, nil)

	if err := d.Check(); err != nil {
		t.Fatalf("check: %v (%s)", err, d.ErrorCode())
	}
	if err := d.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if d.CurrentNode() != -1 {
		t.Fatalf("current node after start = %d, want -1", d.CurrentNode())
	}

	if err := d.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if counter != 3 {
		t.Fatalf("counter = %d, want 3 (single sweep ran both actions)", counter)
	}
	if d.CurrentNode() != 0 {
		t.Fatalf("current node = %d, want 0 (stopped at Final)", d.CurrentNode())
	}
	if d.ExecCount() != 1 {
		t.Fatalf("exec count = %d, want 1", d.ExecCount())
	}
}

func TestDecisionResolutionFirstTrueGuardWins(t *testing.T) {
	var path []int
	markEntered2 := func(d *Descriptor) { path = append(path, 2) }
	markEntered3 := func(d *Descriptor) { path = append(path, 3) }
	falseGuard := func(d *Descriptor) bool { return false }
	trueGuard := func(d *Descriptor) bool { return true }

	d := NewPR(3, 1, 6, 3, 3)
	d.AddActionNode(1, nil)
	d.AddActionNode(2, markEntered2)
	d.AddActionNode(3, markEntered3)
	d.AddDecisionNode(1, 2)

	d.AddInitialFlow(1, nil)
	d.AddFlow(1, -1, nil)
	d.AddFlow(-1, 2, falseGuard)
	d.AddFlow(-1, 3, trueGuard)
	d.AddFlow(2, Final, nil)
	d.AddFlow(3, Final, nil)

	if err := d.Check(); err != nil {
		t.Fatalf("check: %v (%s)", err, d.ErrorCode())
	}
	if err := d.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(path) != 1 || path[0] != 3 {
		t.Fatalf("expected entry into action node 3 only, got %v", path)
	}
	if d.CurrentNode() != 0 {
		t.Fatalf("current node = %d, want 0 (stopped at Final)", d.CurrentNode())
	}
}

type loopData struct {
	counter1 int
	flag1    bool
	visits   []string
}

func loopUD(d *Descriptor) *loopData {
	return d.UserData().(*loopData)
}

// buildLoopPR wires a counting loop: the initial node feeds N1, N1 feeds N2,
// N2 runs through two chained decisions back to N3 and from there to N2
// again, until the second decision's exit guard sees the counter reach 6.
func buildLoopPR(t *testing.T) *Descriptor {
	t.Helper()
	incrN1 := func(d *Descriptor) { loopUD(d).counter1++ }
	incrN2 := func(d *Descriptor) {
		ud := loopUD(d)
		ud.counter1++
		ud.visits = append(ud.visits, "N2")
	}
	incrN3 := func(d *Descriptor) {
		ud := loopUD(d)
		ud.counter1++
		ud.visits = append(ud.visits, "N3")
	}
	keepLooping := func(d *Descriptor) bool { return loopUD(d).flag1 }
	counterDone := func(d *Descriptor) bool { return loopUD(d).counter1 >= 6 }

	d := NewPR(3, 2, 8, 4, 3)
	if d == nil {
		t.Fatal("NewPR returned nil")
	}
	d.AddActionNode(1, incrN1)
	d.AddActionNode(2, incrN2)
	d.AddActionNode(3, incrN3)
	d.AddDecisionNode(1, 2)
	d.AddDecisionNode(2, 2)

	d.AddInitialFlow(1, nil)
	d.AddFlow(1, 2, nil)
	d.AddFlow(2, -1, nil)
	d.AddFlow(3, 2, nil)
	d.AddFlow(-1, -2, keepLooping)
	d.AddFlow(-1, Final, nil)
	d.AddFlow(-2, Final, counterDone)
	d.AddFlow(-2, 3, nil)

	if err := d.Check(); err != nil {
		t.Fatalf("check: %v (%s)", err, d.ErrorCode())
	}
	return d
}

func TestLoopSweepRunsUntilExitGuard(t *testing.T) {
	d := buildLoopPR(t)
	data := &loopData{flag1: true}
	d.SetUserData(data)

	if err := d.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := d.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := []string{"N2", "N3", "N2", "N3", "N2"}
	if !equalVisits(data.visits, want) {
		t.Fatalf("visit sequence = %v, want %v", data.visits, want)
	}
	if data.counter1 != 6 {
		t.Fatalf("counter1 = %d, want 6", data.counter1)
	}
	if d.CurrentNode() != 0 {
		t.Fatalf("current node = %d, want 0 (reached Final)", d.CurrentNode())
	}
}

func TestDerivedOverridesActionAndGuard(t *testing.T) {
	type overrideData struct {
		counter1     int
		flag1, flag2 bool
	}
	ud := func(d *Descriptor) *overrideData { return d.UserData().(*overrideData) }

	incrBy1 := func(d *Descriptor) { ud(d).counter1 += 1 }
	incrBy8 := func(d *Descriptor) { ud(d).counter1 += 8 }
	retFlag1 := func(d *Descriptor) bool { return ud(d).flag1 }
	retFlag2 := func(d *Descriptor) bool { return ud(d).flag2 }

	base := NewPR(2, 0, 3, 2, 2)
	base.AddActionNode(1, incrBy1)
	base.AddActionNode(2, incrBy1)
	base.AddInitialFlow(1, nil)
	base.AddFlow(1, 2, retFlag1)
	base.AddFlow(2, Final, nil)
	if err := base.Check(); err != nil {
		t.Fatalf("base check: %v (%s)", err, base.ErrorCode())
	}

	derived := NewDerivedPR(base)
	if err := derived.OverrideAction(incrBy1, incrBy8); err != nil {
		t.Fatalf("override action: %v (%s)", err, derived.ErrorCode())
	}
	if err := derived.OverrideGuard(retFlag1, retFlag2); err != nil {
		t.Fatalf("override guard: %v (%s)", err, derived.ErrorCode())
	}

	// flag1 stays false: only the overridden guard lets the sweep continue.
	derivedData := &overrideData{flag2: true}
	derived.SetUserData(derivedData)
	if err := derived.Run(); err != nil {
		t.Fatalf("derived run: %v", err)
	}
	if derivedData.counter1 != 16 {
		t.Fatalf("derived counter1 = %d, want 16 (both nodes at +8)", derivedData.counter1)
	}
	if derived.CurrentNode() != 0 {
		t.Fatalf("derived current node = %d, want 0 (reached Final)", derived.CurrentNode())
	}

	// The base still runs its original action and guard tables.
	baseData := &overrideData{flag1: true}
	base.SetUserData(baseData)
	if err := base.Run(); err != nil {
		t.Fatalf("base run: %v", err)
	}
	if baseData.counter1 != 2 {
		t.Fatalf("base counter1 = %d, want 2", baseData.counter1)
	}
}

func equalVisits(a, b []string) bool {
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

func TestOverrideUndefinedActionFails(t *testing.T) {
	base := NewPR(1, 0, 2, 1, 1)
	base.AddActionNode(1, nil)
	base.AddInitialFlow(1, nil)
	base.AddFlow(1, Final, nil)
	if err := base.Check(); err != nil {
		t.Fatalf("base check: %v", err)
	}

	derived := NewDerivedPR(base)
	err := derived.OverrideAction(func(d *Descriptor) {}, func(d *Descriptor) {})
	if err == nil {
		t.Fatal("expected error overriding an action never used by base")
	}
	if derived.ErrorCode() != ErrUndefAction {
		t.Fatalf("error code = %s, want undefAction", derived.ErrorCode())
	}
}

func TestDerivedPRSharesTopologyAndOverrides(t *testing.T) {
	base := NewPR(2, 0, 3, 3, 1)
	var calls []string
	action1 := func(d *Descriptor) { calls = append(calls, "base-action") }

	base.AddActionNode(1, action1)
	base.AddActionNode(2, nil)
	base.AddInitialFlow(1, nil)
	base.AddFlow(1, 2, nil)
	base.AddFlow(2, Final, nil)
	if err := base.Check(); err != nil {
		t.Fatalf("base check: %v (%s)", err, base.ErrorCode())
	}

	derived := NewDerivedPR(base)
	if !derived.IsDerived() {
		t.Fatal("expected derived descriptor")
	}
	if derived.topo != base.topo {
		t.Fatal("derived descriptor must share base topology pointer")
	}

	overridden := func(d *Descriptor) { calls = append(calls, "derived-action") }
	if err := derived.OverrideAction(action1, overridden); err != nil {
		t.Fatalf("override: %v (%s)", err, derived.ErrorCode())
	}

	calls = nil
	if err := derived.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(calls) != 1 || calls[0] != "derived-action" {
		t.Fatalf("expected override to run, got %v", calls)
	}

	calls = nil
	if err := base.Run(); err != nil {
		t.Fatalf("base run: %v", err)
	}
	if len(calls) != 1 || calls[0] != "base-action" {
		t.Fatalf("expected base action untouched, got %v", calls)
	}
}

func TestFlowErrOnAllFalseDecisionGuards(t *testing.T) {
	falseGuard := func(d *Descriptor) bool { return false }

	d := NewPR(1, 1, 4, 1, 2)
	d.AddActionNode(1, nil)
	d.AddDecisionNode(1, 2)

	d.AddInitialFlow(1, nil)
	d.AddFlow(1, -1, nil)
	d.AddFlow(-1, Final, falseGuard)
	d.AddFlow(-1, Final, falseGuard)

	if err := d.Check(); err != nil {
		t.Fatalf("check: %v (%s)", err, d.ErrorCode())
	}
	if err := d.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := d.Execute(); err == nil {
		t.Fatal("expected execute to fail on all-false decision guards")
	}
	if d.ErrorCode() != ErrFlowErr {
		t.Fatalf("error code = %s, want flowErr", d.ErrorCode())
	}
	if d.CurrentNode() != 1 {
		t.Fatalf("current node = %d, want 1 (stays at the action node occupied when the decision was entered)", d.CurrentNode())
	}
	if !d.IsStarted() {
		t.Fatal("descriptor must remain started after a failed decision resolution")
	}
}

func TestStaticDerivedPRDetectsTableSizeMismatch(t *testing.T) {
	base := NewPR(1, 0, 2, 2, 1)
	base.AddActionNode(1, nil)
	base.AddInitialFlow(1, nil)
	base.AddFlow(1, Final, nil)
	if err := base.Check(); err != nil {
		t.Fatalf("base check: %v (%s)", err, base.ErrorCode())
	}

	if d := NewStaticDerivedPR(base, Storage{Actions: 1, Guards: 1}); d.ErrorCode() != ErrWrongNOfActions {
		t.Fatalf("error code = %s, want wrongNOfActions", d.ErrorCode())
	}
	if d := NewStaticDerivedPR(base, Storage{Actions: 2, Guards: 2}); d.ErrorCode() != ErrWrongNOfGuards {
		t.Fatalf("error code = %s, want wrongNOfGuards", d.ErrorCode())
	}

	d := NewStaticDerivedPR(base, Storage{Actions: 2, Guards: 1})
	if d.ErrorCode() != ErrNone {
		t.Fatalf("error code = %s, want none for matching sizes", d.ErrorCode())
	}
	if !d.IsDerived() || d.topo != base.topo {
		t.Fatal("expected a derived descriptor sharing base's topology")
	}
}

func TestCheckDetectsUnreachableNode(t *testing.T) {
	d := NewPR(2, 0, 3, 1, 1)
	d.AddActionNode(1, nil)
	d.AddActionNode(2, nil)
	d.AddInitialFlow(1, nil)
	d.AddFlow(1, 1, nil)    // self-loop, never reaches node 2
	d.AddFlow(2, Final, nil) // node 2 is fully configured but unreachable

	if err := d.Check(); err == nil {
		t.Fatal("expected check to fail")
	}
	if d.ErrorCode() != ErrUnreachable {
		t.Fatalf("error code = %s, want unreachable", d.ErrorCode())
	}
}
