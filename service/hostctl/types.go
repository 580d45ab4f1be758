// SPDX-License-Identifier: BSD-3-Clause

package hostctl

import (
	"sync"

	"github.com/onboardfw/fw/pkg/pr"
)

// Thermal zone states, expressed as sm.Trigger-driven states rather than
// out-of-band alert payloads.
const (
	thermalNominal  = 1
	thermalWarning  = 2
	thermalCritical = 3
)

// Host power triggers, covering the host action/event vocabulary (power on,
// power off, transition-complete, transition error/timeout/resume,
// diagnostic resolved/failed) as plain sm.Trigger values.
const (
	TriggerPowerOn = iota + 1
	TriggerPowerOff
	TriggerReboot
	TriggerForceOff
	TriggerForceRestart
	triggerTransitionCompleteOn
	triggerTransitionCompleteOff
	triggerTransitionError
	triggerTransitionTimeout
	triggerTransitionResume
	triggerDiagnosticResolved
	triggerDiagnosticFailed
)

// Thermal triggers fed by the sensor poller's execFuncBehaviour.
const (
	triggerTempNominal = iota + 1
	triggerTempWarning
	triggerTempCritical
)

// Threshold holds the warning/critical boundaries for one sensor reading.
type Threshold struct {
	WarningC  float64
	CriticalC float64
}

// SensorReading is one sample taken by the poller's backend.
type SensorReading struct {
	ID           string
	TemperatureC float64
}

// Backend produces sensor readings. A real mainboard target would implement
// this against hwmon or IPMI; the demo binary uses a mock.
type Backend interface {
	Read() ([]SensorReading, error)
}

// HostUserData is the descriptor-attached state shared by the host power
// machine, its embedded thermal machine, and the boot procedure that runs
// while Transitioning: the single blob every action/guard in this package
// closes over via d.UserData().(*HostUserData).
type HostUserData struct {
	mu sync.Mutex

	HostName string

	// thermalState mirrors the embedded thermal descriptor's CurrentState,
	// kept here too because the afterBoot choice guard runs on the host
	// descriptor and reads this field rather than reaching into the
	// embedded descriptor directly.
	thermalState int

	// bootAttempts counts POST sequence runs, incremented by the boot
	// procedure's power_good action; nothing resets it.
	bootAttempts int
	bootOK       bool

	// lastPowerAction records the most recent requested action; nothing in
	// this package reads it back.
	lastPowerAction string

	boot *pr.Descriptor
}

func (u *HostUserData) setThermalState(s int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.thermalState = s
}

func (u *HostUserData) getThermalState() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.thermalState == 0 {
		return thermalNominal
	}
	return u.thermalState
}

func (u *HostUserData) setBootOK(ok bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.bootOK = ok
}

func (u *HostUserData) isBootOK() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.bootOK
}
