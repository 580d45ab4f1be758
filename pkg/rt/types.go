// SPDX-License-Identifier: BSD-3-Clause

package rt

// Action is a user callback run by the container. It returns 1 to signal a
// positive outcome (proceed / notify / finished) and 0 otherwise, an i32
// convention carried over unchanged rather than translated into a bool, so
// the eight callbacks keep one uniform shape.
type Action func(c *Container) int

func noopAction(c *Container) int { return 1 }

// callbacks holds the eight user hooks the container invokes across its
// notification and activation procedures. defaultCallbacks sets every hook
// to noopAction, matching "all may be left as no-op returning 1"; the zero
// value holds nil hooks.
type callbacks struct {
	initializeNotifPr   Action
	finalizeNotifPr     Action
	implementNotifLogic Action
	initializeActivPr   Action
	finalizeActivPr     Action
	setUpNotification   Action
	implementActivLogic Action
	execFuncBehaviour   Action
}

func defaultCallbacks() callbacks {
	return callbacks{
		initializeNotifPr:   noopAction,
		finalizeNotifPr:     noopAction,
		implementNotifLogic: noopAction,
		initializeActivPr:   noopAction,
		finalizeActivPr:     noopAction,
		setUpNotification:   noopAction,
		implementActivLogic: noopAction,
		execFuncBehaviour:   noopAction,
	}
}
