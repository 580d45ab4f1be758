// SPDX-License-Identifier: BSD-3-Clause

// Package rt implements the Real-Time Container: a single worker goroutine
// (the Activation Thread) driven by a notification counter and a condition
// variable, wrapping a user-supplied functional behaviour in a
// notification/activation loop.
//
// A container moves through {Uninitialised, Stopped, Started} plus a set of
// terminal error states, one per failed primitive in the original
// mutex/condvar/thread resource model; see ContainerState.
//
// # Usage
//
//	c := rt.New(
//		rt.WithName("telemetry-poller"),
//		rt.WithImplementNotifLogic(func(c *rt.Container) int { return 1 }),
//		rt.WithImplementActivLogic(func(c *rt.Container) int { return 1 }),
//		rt.WithExecFuncBehaviour(pollOnce),
//	)
//	c.Init()
//	c.Start(ctx)
//	c.Notify()
//	c.Stop()
//	c.WaitForTermination()
//	c.Shutdown()
//
// Multiple notifications arriving before the worker drains the counter are
// coalesced: the counter tracks pending activations, not a queue of events.
package rt
