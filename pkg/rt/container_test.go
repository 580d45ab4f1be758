// SPDX-License-Identifier: BSD-3-Clause

package rt

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNominalRunToSelfTermination(t *testing.T) {
	var mu sync.Mutex
	var initNotif, finalNotif, initActiv, finalActiv int
	var execCalls int
	const target = 5

	c := New(
		WithName("nominal"),
		WithInitializeNotifPr(func(c *Container) int { mu.Lock(); initNotif++; mu.Unlock(); return 1 }),
		WithFinalizeNotifPr(func(c *Container) int { mu.Lock(); finalNotif++; mu.Unlock(); return 1 }),
		WithImplementNotifLogic(func(c *Container) int { return 1 }),
		WithInitializeActivPr(func(c *Container) int { mu.Lock(); initActiv++; mu.Unlock(); return 1 }),
		WithFinalizeActivPr(func(c *Container) int { mu.Lock(); finalActiv++; mu.Unlock(); return 1 }),
		WithSetUpNotification(func(c *Container) int { return 1 }),
		WithImplementActivLogic(func(c *Container) int { return 1 }),
		WithExecFuncBehaviour(func(c *Container) int {
			mu.Lock()
			execCalls++
			done := execCalls >= target
			mu.Unlock()
			if done {
				return 1
			}
			return 0
		}),
	)
	if err := c.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	c.Start(context.Background())
	for i := 0; i < target; i++ {
		c.Notify()
	}
	c.WaitForTermination()

	mu.Lock()
	defer mu.Unlock()
	if initNotif != 1 {
		t.Fatalf("initializeNotifPr called %d times, want 1", initNotif)
	}
	if finalNotif != 1 {
		t.Fatalf("finalizeNotifPr called %d times, want 1", finalNotif)
	}
	if initActiv != 1 {
		t.Fatalf("initializeActivPr called %d times, want 1", initActiv)
	}
	if finalActiv != 1 {
		t.Fatalf("finalizeActivPr called %d times, want 1", finalActiv)
	}
	if execCalls != target {
		t.Fatalf("execFuncBehaviour called %d times, want %d", execCalls, target)
	}
	if c.State() != StateStopped {
		t.Fatalf("state = %s, want stopped", c.State())
	}
	if err := c.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestBurstNotificationsAreCoalescedIntoCounter(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	var mu sync.Mutex
	passes := 0

	c := New(
		WithImplementNotifLogic(func(c *Container) int { return 1 }),
		WithImplementActivLogic(func(c *Container) int { return 1 }),
		WithSetUpNotification(func(c *Container) int { return 1 }),
		WithExecFuncBehaviour(func(c *Container) int {
			mu.Lock()
			passes++
			first := passes == 1
			mu.Unlock()
			if first {
				started <- struct{}{}
				<-release
			}
			return 0
		}),
	)
	if err := c.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	c.Start(context.Background())

	c.Notify()
	<-started // worker is now blocked inside the first execFuncBehaviour call

	for i := 0; i < 9; i++ {
		c.Notify()
	}
	if n := c.NotifCounter(); n == 0 {
		t.Fatal("expected pending notifications to accumulate in the counter while the worker is busy")
	}

	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for c.NotifCounter() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	mu.Lock()
	got := passes
	mu.Unlock()
	if got < 10 {
		t.Fatalf("expected every coalesced notification to eventually drive its own activation pass, got %d passes", got)
	}

	c.Stop()
	c.WaitForTermination()
	if err := c.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestDefaultCallbacksRunToTermination(t *testing.T) {
	// With every hook left as the no-op returning 1, the first activation
	// pass runs the functional behaviour, sees it report termination, and
	// winds the container down on its own.
	c := New(WithName("default"))
	if err := c.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	c.Start(context.Background())
	c.Notify()
	c.WaitForTermination()

	if c.State() != StateStopped {
		t.Fatalf("state = %s, want stopped", c.State())
	}
	if n := c.NotifCounter(); n != 0 {
		t.Fatalf("notification counter = %d, want 0 after the single pass drained it", n)
	}
	if c.LastErrCode() != 0 {
		t.Fatalf("last error code = %d, want 0", c.LastErrCode())
	}
	if err := c.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestThreadAttrPinsWorkerAndRunsToTermination(t *testing.T) {
	c := New(
		WithName("pinned"),
		WithThreadAttr(ThreadAttr{LockOSThread: true}),
	)
	if !c.ThreadAttr().LockOSThread {
		t.Fatal("thread attribute not recorded")
	}
	if err := c.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	c.Start(context.Background())
	c.Notify()
	c.WaitForTermination()

	if c.State() != StateStopped {
		t.Fatalf("state = %s, want stopped", c.State())
	}
}

func TestNotifyAfterTerminationIsANoOp(t *testing.T) {
	c := New(
		WithImplementNotifLogic(func(c *Container) int { return 1 }),
		WithImplementActivLogic(func(c *Container) int { return 1 }),
		WithExecFuncBehaviour(func(c *Container) int { return 1 }),
	)
	if err := c.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	c.Start(context.Background())
	c.Notify()
	c.WaitForTermination()

	// The notification side has already finalized; further Notify calls
	// must not panic or reopen it.
	c.Notify()
	if c.State() != StateStopped {
		t.Fatalf("state = %s, want stopped", c.State())
	}
}

func TestStartIsANoOpUnlessStopped(t *testing.T) {
	c := New()
	// Start before Init: state is Uninitialised, not Stopped.
	c.Start(context.Background())
	if c.State() != StateUninitialised {
		t.Fatalf("state = %s, want uninitialised (Start must no-op)", c.State())
	}
}
