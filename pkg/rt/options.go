// SPDX-License-Identifier: BSD-3-Clause

package rt

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Container at construction time via the usual
// functional-options WithXxx family.
type Option interface {
	apply(*Container)
}

type optionFunc func(*Container)

func (f optionFunc) apply(c *Container) { f(c) }

// WithName attaches a name used in logging and tracing spans.
func WithName(name string) Option {
	return optionFunc(func(c *Container) { c.name = name })
}

// WithUserData sets the opaque user-data pointer available to every
// callback via Container.UserData.
func WithUserData(v any) Option {
	return optionFunc(func(c *Container) { c.userData = v })
}

// WithLogger overrides the container's structured logger.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *Container) {
		if l != nil {
			c.log = l
		}
	})
}

// WithTracer attaches an OpenTelemetry tracer used to span each activation
// pass; nil (the default) disables tracing.
func WithTracer(t trace.Tracer) Option {
	return optionFunc(func(c *Container) { c.tracer = t })
}

// WithMeter attaches an OpenTelemetry meter used to count notifications and
// activation passes; nil (the default) disables metrics.
func WithMeter(m metric.Meter) Option {
	return optionFunc(func(c *Container) { c.configureMeter(m) })
}

// WithMutexAttr sets the attribute object applied to the container's mutex
// at Init.
func WithMutexAttr(a MutexAttr) Option {
	return optionFunc(func(c *Container) { c.mutexAttr = a })
}

// WithCondAttr sets the attribute object applied to the container's
// condition variable at Init.
func WithCondAttr(a CondAttr) Option {
	return optionFunc(func(c *Container) { c.condAttr = a })
}

// WithThreadAttr sets the attribute object applied to the Activation Thread
// at Start.
func WithThreadAttr(a ThreadAttr) Option {
	return optionFunc(func(c *Container) { c.threadAttr = a })
}

// WithInitializeNotifPr sets the callback run on the first pass of the
// notification procedure.
func WithInitializeNotifPr(a Action) Option {
	return optionFunc(func(c *Container) { c.cb.initializeNotifPr = orNoop(a) })
}

// WithFinalizeNotifPr sets the callback run just before the notification
// procedure ends.
func WithFinalizeNotifPr(a Action) Option {
	return optionFunc(func(c *Container) { c.cb.finalizeNotifPr = orNoop(a) })
}

// WithImplementNotifLogic sets the callback that decides whether a given
// Notify call should actually post a pending activation.
func WithImplementNotifLogic(a Action) Option {
	return optionFunc(func(c *Container) { c.cb.implementNotifLogic = orNoop(a) })
}

// WithInitializeActivPr sets the callback run on the first pass of the
// activation procedure.
func WithInitializeActivPr(a Action) Option {
	return optionFunc(func(c *Container) { c.cb.initializeActivPr = orNoop(a) })
}

// WithFinalizeActivPr sets the callback run just before the activation
// procedure ends.
func WithFinalizeActivPr(a Action) Option {
	return optionFunc(func(c *Container) { c.cb.finalizeActivPr = orNoop(a) })
}

// WithSetUpNotification sets the callback run each cycle to arrange the
// next notification (e.g. arming a timer).
func WithSetUpNotification(a Action) Option {
	return optionFunc(func(c *Container) { c.cb.setUpNotification = orNoop(a) })
}

// WithImplementActivLogic sets the callback that decides whether the
// functional behaviour should run this cycle.
func WithImplementActivLogic(a Action) Option {
	return optionFunc(func(c *Container) { c.cb.implementActivLogic = orNoop(a) })
}

// WithExecFuncBehaviour sets the callback implementing the functional
// behaviour itself; it returns 1 once that behaviour has terminated.
func WithExecFuncBehaviour(a Action) Option {
	return optionFunc(func(c *Container) { c.cb.execFuncBehaviour = orNoop(a) })
}

func orNoop(a Action) Action {
	if a == nil {
		return noopAction
	}
	return a
}
