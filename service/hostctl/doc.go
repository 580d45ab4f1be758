// SPDX-License-Identifier: BSD-3-Clause

// Package hostctl implements host power control, boot sequencing and sensor
// monitoring for a single managed host, split into three collaborating
// components:
//
//   - HostPowerService wraps an sm.Descriptor (with an embedded thermal
//     sm.Descriptor) modelling host power state: Off, Transitioning, On,
//     Quiesced, Diagnostic and Error, gated by a thermal choice state that
//     reads the host's reported thermal health.
//   - buildBootProcedure builds a pr.Descriptor modelling the POST sequence a
//     Transitioning-to-On host runs once: power_good, memory_train,
//     firmware_load, handoff_to_os.
//   - SensorPoller wraps an rt.Container driving a periodic sensor read,
//     feeding thermal triggers into the host's embedded thermal machine.
//
// Both services implement service.Service and are supervised by
// pkg/process via cirello.io/oversight.
package hostctl
