// SPDX-License-Identifier: BSD-3-Clause

package hostctl

import (
	"log/slog"

	"github.com/onboardfw/fw/pkg/sm"
)

// Host power proper-state ids, expressed as this engine's plain ints.
const (
	hostOff = iota + 1
	hostTransitioning
	hostOn
	hostQuiesced
	hostDiagnostic
	hostError
)

// choiceAfterBoot is the choice pseudo-state id (negative in AddTransition
// destinations) gating entry into On behind the thermal zone recorded by the
// embedded thermal machine and the boot procedure's bootOK flag: a host that
// came out of POST into a Warning or Critical zone, or without bootOK set, is
// routed to Diagnostic instead of On, the engine-level
// equivalent of statemgr's error-state entry callback requesting a "error"
// LED action when a host can't be trusted to run.
const choiceAfterBoot = 1

// buildHostPowerSM constructs the host power state machine: Off,
// Transitioning (host to the embedded thermal machine and to the boot
// procedure built by buildBootProcedure),
// On, Quiesced, Diagnostic and Error, gated on entry to On by the
// choiceAfterBoot thermal check.
//
// nProperStates=6, nChoiceStates=1, nTransitions=16 (1 initial + 1 + 4 + 2 +
// 2 + 2 + 2 on the proper states + 2 on the choice), nActions sized for the
// 6 entry loggers plus 8 distinct transition/do actions (doTransitioning,
// initHost, requestPowerOn, recordTransitionError, requestPowerOff,
// requestReboot, requestForceOff, requestForceRestart) plus the dummy slot,
// nGuards sized for the dummy plus the one thermal-nominal guard.
func buildHostPowerSM(l *slog.Logger) *sm.Descriptor {
	d := sm.NewSM(6, 1, 16, 15, 2)
	if d == nil {
		return nil
	}

	hostLogger = l

	d.AddProperState(hostOff, hostEnterOff, nil, nil, 1)
	d.AddProperState(hostTransitioning, hostEnterTransitioning, doTransitioning, nil, 4)
	d.AddProperState(hostOn, hostEnterOn, nil, nil, 2)
	d.AddProperState(hostQuiesced, hostEnterQuiesced, nil, nil, 2)
	d.AddProperState(hostDiagnostic, hostEnterDiagnostic, nil, nil, 2)
	d.AddProperState(hostError, hostEnterError, nil, nil, 2)

	d.AddChoiceState(choiceAfterBoot, 2)

	d.AddInitialTransition(hostOff, initHost)

	d.AddTransition(hostOff, hostTransitioning, TriggerPowerOn, requestPowerOn, nil)

	d.AddTransition(hostTransitioning, -choiceAfterBoot, triggerTransitionCompleteOn, nil, nil)
	d.AddTransition(hostTransitioning, hostOff, triggerTransitionCompleteOff, nil, nil)
	d.AddTransition(hostTransitioning, hostError, triggerTransitionError, recordTransitionError, nil)
	d.AddTransition(hostTransitioning, hostQuiesced, triggerTransitionTimeout, nil, nil)

	d.AddTransition(hostOn, hostTransitioning, TriggerPowerOff, requestPowerOff, nil)
	d.AddTransition(hostOn, hostTransitioning, TriggerReboot, requestReboot, nil)

	d.AddTransition(hostQuiesced, hostOn, triggerTransitionResume, nil, nil)
	d.AddTransition(hostQuiesced, hostOff, TriggerPowerOff, requestPowerOff, nil)

	d.AddTransition(hostDiagnostic, hostOn, triggerDiagnosticResolved, nil, nil)
	d.AddTransition(hostDiagnostic, hostError, triggerDiagnosticFailed, nil, nil)

	d.AddTransition(hostError, hostOff, TriggerForceOff, requestForceOff, nil)
	d.AddTransition(hostError, hostTransitioning, TriggerForceRestart, requestForceRestart, nil)

	d.AddTransition(-choiceAfterBoot, hostOn, 0, nil, thermalNominalGuard)
	d.AddTransition(-choiceAfterBoot, hostDiagnostic, 0, nil, nil)

	if d.ErrorCode() != sm.ErrNone {
		return nil
	}
	return d
}

// hostLogger is package-level because sm.Action has no slot for a logger
// parameter; buildHostPowerSM assigns it once before configuring the
// descriptor. Every hostEnterXxx function below must stay a distinct
// top-level declaration rather than a closure returned from a shared
// factory: AddProperState dedups actions by comparing
// reflect.ValueOf(fn).Pointer(), and closures created from the same
// function literal share that code pointer regardless of what they
// captured, which would collapse six distinct per-state loggers into one.
var hostLogger *slog.Logger

func logEnterState(d *sm.Descriptor, state string) {
	if hostLogger == nil {
		return
	}
	name := ""
	if ud := userData(d); ud != nil {
		name = ud.HostName
	}
	hostLogger.Info("host entering state", "host", name, "state", state)
}

func hostEnterOff(d *sm.Descriptor)           { logEnterState(d, "off") }
func hostEnterTransitioning(d *sm.Descriptor) { logEnterState(d, "transitioning") }
func hostEnterOn(d *sm.Descriptor)            { logEnterState(d, "on") }
func hostEnterQuiesced(d *sm.Descriptor)      { logEnterState(d, "quiesced") }
func hostEnterDiagnostic(d *sm.Descriptor)    { logEnterState(d, "diagnostic") }
func hostEnterError(d *sm.Descriptor)         { logEnterState(d, "error") }

// doTransitioning is Transitioning's per-Execute do action: it runs one
// Execute of the boot procedure while that procedure is started (power-on,
// reboot and force-restart start it) and otherwise leaves the trigger up to the
// caller driving Execute with the completion triggers the boot procedure and
// timeout logic produce.
func doTransitioning(d *sm.Descriptor) {
	ud := userData(d)
	if ud == nil || ud.boot == nil {
		return
	}
	if !ud.boot.IsStarted() {
		return
	}
	_ = ud.boot.Execute()
}

func initHost(d *sm.Descriptor) {
	if ud := userData(d); ud != nil {
		ud.lastPowerAction = "init"
	}
}

func requestPowerOn(d *sm.Descriptor) {
	if ud := userData(d); ud != nil {
		ud.lastPowerAction = "power_on"
		if ud.boot != nil {
			_ = ud.boot.Start()
		}
	}
}

func requestPowerOff(d *sm.Descriptor) {
	if ud := userData(d); ud != nil {
		ud.lastPowerAction = "power_off"
	}
}

func requestReboot(d *sm.Descriptor) {
	if ud := userData(d); ud != nil {
		ud.lastPowerAction = "reboot"
		if ud.boot != nil {
			_ = ud.boot.Stop()
			_ = ud.boot.Start()
		}
	}
}

func requestForceOff(d *sm.Descriptor) {
	if ud := userData(d); ud != nil {
		ud.lastPowerAction = "force_off"
	}
}

func requestForceRestart(d *sm.Descriptor) {
	if ud := userData(d); ud != nil {
		ud.lastPowerAction = "force_restart"
		if ud.boot != nil {
			_ = ud.boot.Stop()
			_ = ud.boot.Start()
		}
	}
}

func recordTransitionError(d *sm.Descriptor) {
	if ud := userData(d); ud != nil {
		ud.setBootOK(false)
	}
}

// thermalNominalGuard is the afterBoot choice's first outgoing guard: it is
// true only when the thermal zone is Nominal and the boot procedure set
// bootOK, so a zone that regressed to Warning or Critical during POST, or a
// boot that did not reach handoff_to_os, routes the host to Diagnostic
// instead of On.
func thermalNominalGuard(d *sm.Descriptor) bool {
	ud := userData(d)
	if ud == nil {
		return true
	}
	return ud.getThermalState() == thermalNominal && ud.isBootOK()
}
