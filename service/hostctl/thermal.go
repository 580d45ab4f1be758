// SPDX-License-Identifier: BSD-3-Clause

package hostctl

import (
	"github.com/onboardfw/fw/pkg/sm"
)

// thermal zone proper-state ids, matching the thermalNominal/Warning/Critical
// constants in types.go so the host power machine's guards can compare
// directly against them.
const (
	thermalStateNominal  = thermalNominal
	thermalStateWarning  = thermalWarning
	thermalStateCritical = thermalCritical
)

// buildThermalSM constructs the embedded thermal zone machine: Nominal,
// Warning and Critical, with recovery always stepping down one tier at a
// time, treating a cooling trend as a sequence of threshold crossings
// rather than a single reset.
// Every entry action writes the new zone into the shared HostUserData so the
// host power machine's afterBoot choice can read it without reaching into
// this descriptor directly.
func buildThermalSM() *sm.Descriptor {
	d := sm.NewSM(3, 0, 5, 4, 2)
	if d == nil {
		return nil
	}

	d.AddProperState(thermalStateNominal, thermalEnterNominal, nil, nil, 1)
	d.AddProperState(thermalStateWarning, thermalEnterWarning, nil, nil, 2)
	d.AddProperState(thermalStateCritical, thermalEnterCritical, nil, nil, 1)

	d.AddInitialTransition(thermalStateNominal, nil)

	d.AddTransition(thermalStateNominal, thermalStateWarning, triggerTempWarning, nil, nil)

	d.AddTransition(thermalStateWarning, thermalStateNominal, triggerTempNominal, nil, nil)
	d.AddTransition(thermalStateWarning, thermalStateCritical, triggerTempCritical, nil, nil)

	d.AddTransition(thermalStateCritical, thermalStateWarning, triggerTempNominal, nil, nil)

	return d
}

func userData(d *sm.Descriptor) *HostUserData {
	ud, _ := d.UserData().(*HostUserData)
	return ud
}

func thermalEnterNominal(d *sm.Descriptor) {
	if ud := userData(d); ud != nil {
		ud.setThermalState(thermalStateNominal)
	}
}

func thermalEnterWarning(d *sm.Descriptor) {
	if ud := userData(d); ud != nil {
		ud.setThermalState(thermalStateWarning)
	}
}

func thermalEnterCritical(d *sm.Descriptor) {
	if ud := userData(d); ud != nil {
		ud.setThermalState(thermalStateCritical)
	}
}
