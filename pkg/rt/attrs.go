// SPDX-License-Identifier: BSD-3-Clause

package rt

// MutexAttr carries configuration for the container's mutex, mirroring the
// attribute object a POSIX-backed port would pass to its mutex init. Go's
// sync.Mutex accepts no tuning, so the type has no fields yet; it exists so
// the configuration surface stays stable when a backend with real mutex
// attributes plugs in.
type MutexAttr struct{}

// CondAttr carries configuration for the container's condition variable,
// the counterpart of MutexAttr for the cond side. sync.Cond accepts no
// tuning either.
type CondAttr struct{}

// ThreadAttr carries configuration for the Activation Thread.
type ThreadAttr struct {
	// LockOSThread pins the worker goroutine to a dedicated OS thread for
	// its whole lifetime, the closest Go analogue of a pthread attribute
	// requesting a dedicated scheduling entity. Useful when the functional
	// behaviour needs thread-local OS state or steadier latency.
	LockOSThread bool
}
