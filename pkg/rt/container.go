// SPDX-License-Identifier: BSD-3-Clause

package rt

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Container is the Real-Time Container: a notification/activation loop
// wrapping a user-supplied functional behaviour, driven by one worker
// goroutine (the Activation Thread) and a mutex/condition-variable pair
// guarding the shared state in the usual producer/consumer discipline.
//
// SM and PR descriptors are single-threaded by contract; Container is the
// only piece of this module meant to be driven from multiple goroutines.
type Container struct {
	mu   sync.Mutex
	cond *sync.Cond

	state          atomic.Int32
	notifCounter   int
	notifPrStarted bool
	activPrStarted bool
	lastErrCode    int

	wg sync.WaitGroup

	name     string
	userData any
	cb       callbacks

	mutexAttr  MutexAttr
	condAttr   CondAttr
	threadAttr ThreadAttr

	log    *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter

	notifyCounterMetric  metric.Int64Counter
	activationPassMetric metric.Int64Counter
}

// New creates a container in the Uninitialised state. Call Init before
// Start.
func New(opts ...Option) *Container {
	c := &Container{
		log: slog.Default(),
		cb:  defaultCallbacks(),
	}
	c.state.Store(int32(StateUninitialised))
	for _, opt := range opts {
		opt.apply(c)
	}
	return c
}

func (c *Container) configureMeter(m metric.Meter) {
	c.meter = m
	if m == nil {
		return
	}
	if ctr, err := m.Int64Counter("rt_container_notifications"); err == nil {
		c.notifyCounterMetric = ctr
	}
	if ctr, err := m.Int64Counter("rt_container_activation_passes"); err == nil {
		c.activationPassMetric = ctr
	}
}

// Init allocates the container's mutex/condition-variable pair and moves it
// from Uninitialised to Stopped. Calling Init outside Uninitialised sets
// StateConfigErr and returns ErrWrongPhase.
func (c *Container) Init() error {
	if ContainerState(c.state.Load()) != StateUninitialised {
		c.state.Store(int32(StateConfigErr))
		return ErrWrongPhase
	}
	c.cond = sync.NewCond(&c.mu)
	c.state.Store(int32(StateStopped))
	return nil
}

// Reset clears a terminal error state back to Stopped, the documented way
// to lift a sticky RT error. It
// requires the container to already be initialised (cond != nil).
func (c *Container) Reset() error {
	if c.cond == nil {
		return ErrWrongPhase
	}
	if !c.State().IsTerminalError() {
		return nil
	}
	c.state.Store(int32(StateStopped))
	c.lastErrCode = 0
	return nil
}

// Shutdown releases the container's resources and returns it to
// Uninitialised. Only valid when Stopped and the worker has been joined via
// WaitForTermination.
func (c *Container) Shutdown() error {
	if ContainerState(c.state.Load()) != StateStopped {
		return ErrNotStopped
	}
	c.cond = nil
	c.state.Store(int32(StateUninitialised))
	return nil
}

// SetUserData replaces the opaque user-data pointer.
func (c *Container) SetUserData(v any) { c.userData = v }

// UserData returns the opaque user-data pointer.
func (c *Container) UserData() any { return c.userData }

// State reports the container's current lifecycle state.
func (c *Container) State() ContainerState { return ContainerState(c.state.Load()) }

// NotifCounter reports the current value of the pending-activation counter.
func (c *Container) NotifCounter() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notifCounter
}

// LastErrCode reports the raw code of the last failed primitive, if any.
func (c *Container) LastErrCode() int { return c.lastErrCode }

// MutexAttr reports the configured mutex attribute object.
func (c *Container) MutexAttr() MutexAttr { return c.mutexAttr }

// CondAttr reports the configured condition-variable attribute object.
func (c *Container) CondAttr() CondAttr { return c.condAttr }

// ThreadAttr reports the configured Activation Thread attribute object.
func (c *Container) ThreadAttr() ThreadAttr { return c.threadAttr }

// setCallback-style setters let the eight hooks be reconfigured any time
// before Start; attempting one while Started sets StateConfigErr.

func (c *Container) setCallback(set func()) error {
	if ContainerState(c.state.Load()) == StateStarted {
		c.state.Store(int32(StateConfigErr))
		return ErrWrongPhase
	}
	set()
	return nil
}

func (c *Container) SetInitializeNotifPrAction(a Action) error {
	return c.setCallback(func() { c.cb.initializeNotifPr = orNoop(a) })
}

func (c *Container) SetFinalizeNotifPrAction(a Action) error {
	return c.setCallback(func() { c.cb.finalizeNotifPr = orNoop(a) })
}

func (c *Container) SetImplementNotifLogicAction(a Action) error {
	return c.setCallback(func() { c.cb.implementNotifLogic = orNoop(a) })
}

func (c *Container) SetInitializeActivPrAction(a Action) error {
	return c.setCallback(func() { c.cb.initializeActivPr = orNoop(a) })
}

func (c *Container) SetFinalizeActivPrAction(a Action) error {
	return c.setCallback(func() { c.cb.finalizeActivPr = orNoop(a) })
}

func (c *Container) SetSetUpNotificationAction(a Action) error {
	return c.setCallback(func() { c.cb.setUpNotification = orNoop(a) })
}

func (c *Container) SetImplementActivLogicAction(a Action) error {
	return c.setCallback(func() { c.cb.implementActivLogic = orNoop(a) })
}

func (c *Container) SetExecFuncBehaviourAction(a Action) error {
	return c.setCallback(func() { c.cb.execFuncBehaviour = orNoop(a) })
}

// SetMutexAttr, SetCondAttr and SetThreadAttr replace the per-primitive
// attribute objects, under the same before-Start guard as the callback
// setters; the mutex and cond attributes take effect at the next Init, the
// thread attribute at the next Start.

func (c *Container) SetMutexAttr(a MutexAttr) error {
	return c.setCallback(func() { c.mutexAttr = a })
}

func (c *Container) SetCondAttr(a CondAttr) error {
	return c.setCallback(func() { c.condAttr = a })
}

func (c *Container) SetThreadAttr(a ThreadAttr) error {
	return c.setCallback(func() { c.threadAttr = a })
}

// Start arms the container and spawns the Activation Thread. A call while
// not Stopped is a no-op: the mutex is released and the call returns
// immediately.
func (c *Container) Start(ctx context.Context) {
	c.mu.Lock()
	if ContainerState(c.state.Load()) != StateStopped {
		c.mu.Unlock()
		return
	}

	c.notifPrStarted = true
	c.activPrStarted = true
	c.cb.initializeNotifPr(c)
	c.cb.initializeActivPr(c)
	c.cb.setUpNotification(c)
	c.state.Store(int32(StateStarted))
	c.notifCounter = 0
	c.mu.Unlock()

	if c.log != nil {
		c.log.Info("rt container started", "name", c.name)
	}

	c.wg.Add(1)
	go c.activationThread(ctx)
}

// Notify runs one pass of the Notification Procedure under the mutex.
func (c *Container) Notify() {
	c.mu.Lock()
	c.notificationProcedurePass()
	c.mu.Unlock()
}

// notificationProcedurePass runs one pass of the notification procedure:
// once the activation side has finished it finalizes the notification side;
// otherwise, when implementNotifLogic returns 1, it increments the pending
// notification counter and signals the Activation Thread. Caller must hold
// c.mu.
func (c *Container) notificationProcedurePass() {
	if !c.notifPrStarted {
		return
	}
	if !c.activPrStarted {
		c.cb.finalizeNotifPr(c)
		c.notifPrStarted = false
		return
	}
	if c.notifyCounterMetric != nil {
		c.notifyCounterMetric.Add(context.Background(), 1, metric.WithAttributes(attribute.String("container", c.name)))
	}
	if c.cb.implementNotifLogic(c) == 1 {
		c.notifCounter++
		c.cond.Signal()
	}
}

// Stop requests the container to wind down. A call while not Started is a
// no-op.
func (c *Container) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ContainerState(c.state.Load()) != StateStarted {
		return
	}
	c.state.Store(int32(StateStopped))
	c.notifCounter++
	c.cond.Signal()
}

// WaitForTermination blocks until the Activation Thread has exited.
func (c *Container) WaitForTermination() {
	c.wg.Wait()
}

// activationThread is the Activation Thread's entry point. It holds the
// mutex only to wait on the condition variable and to decrement the
// counter; the activation pass itself, including execFuncBehaviour, runs
// without the lock held, so a slow user callback never blocks Notify
// callers.
func (c *Container) activationThread(ctx context.Context) {
	defer c.wg.Done()

	if c.threadAttr.LockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	for {
		c.mu.Lock()
		for c.notifCounter == 0 {
			c.cond.Wait()
		}
		c.notifCounter--
		c.mu.Unlock()

		c.activationProcedurePass(ctx)

		c.mu.Lock()
		activStillRunning := c.activPrStarted
		c.mu.Unlock()

		if !activStillRunning {
			c.state.Store(int32(StateStopped))
			c.Notify()
			return
		}
		if ContainerState(c.state.Load()) == StateStopped {
			c.activationProcedurePass(ctx)
			c.Notify()
			return
		}
	}
}

// activationProcedurePass implements "Activation Procedure (one pass)".
func (c *Container) activationProcedurePass(ctx context.Context) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "rt.activation_pass")
		defer span.End()
	}
	if c.activationPassMetric != nil {
		c.activationPassMetric.Add(ctx, 1, metric.WithAttributes(attribute.String("container", c.name)))
	}

	if ContainerState(c.state.Load()) == StateStopped {
		c.cb.finalizeActivPr(c)
		c.mu.Lock()
		c.activPrStarted = false
		c.mu.Unlock()
		return
	}

	if c.cb.implementActivLogic(c) == 1 {
		if c.cb.execFuncBehaviour(c) == 1 {
			c.cb.finalizeActivPr(c)
			c.mu.Lock()
			c.activPrStarted = false
			c.mu.Unlock()
			return
		}
	}
	c.cb.setUpNotification(c)
}
