// SPDX-License-Identifier: BSD-3-Clause

package hostctl

import "errors"

var (
	// ErrDescriptorBuild indicates a state machine or procedure descriptor
	// failed construction or Check, and should never happen for the fixed
	// topologies this package builds — a non-nil error here means the
	// topology itself was edited incorrectly.
	ErrDescriptorBuild = errors.New("hostctl: descriptor build failed")
	// ErrUnknownSensor indicates a poll cycle referenced a sensor ID not
	// present in the poller's configured backend set.
	ErrUnknownSensor = errors.New("hostctl: unknown sensor id")
	// ErrInvalidTrigger is returned by HostPowerService.Fire when the trigger
	// queue is full and the trigger could not be queued.
	ErrInvalidTrigger = errors.New("hostctl: trigger queue full")
)
