// SPDX-License-Identifier: BSD-3-Clause

package hostctl

import (
	"log/slog"

	"github.com/onboardfw/fw/pkg/pr"
)

// Boot procedure action-node ids, named after the POST step vocabulary this
// module's own telemetry example (pkg/telemetry/example.go) already seeds:
// power_good, memory_train, firmware_load.
const (
	bootPowerGood = iota + 1
	bootMemoryTrain
	bootFirmwareLoad
	bootHandoffToOS
)

const decisionMemoryIntegrity = 1

// bootLogger mirrors hostLogger's reasoning in hostpower.go: a package
// variable because pr.Action carries no logger parameter, set once by
// NewHostPowerService before the actions buildBootProcedure assigns ever run.
var bootLogger *slog.Logger

// buildBootProcedure constructs the POST sequence a Transitioning-to-On host
// runs once per boot attempt: power_good confirms rails are stable and
// clears HostUserData.bootOK for this attempt, then memory_train, gated by
// decisionMemoryIntegrity on memoryTrainedGuard (the recorded thermal zone
// is not Critical), then firmware_load and handoff_to_os, which sets bootOK.
// When the guard is false the decision routes straight to Final without
// reaching firmware load, leaving bootOK false so the host machine's
// afterBoot choice sends the host to Diagnostic instead of On.
func buildBootProcedure() *pr.Descriptor {
	d := pr.NewPR(4, 1, 7, 5, 2)
	if d == nil {
		return nil
	}

	d.AddActionNode(bootPowerGood, bootStepPowerGood)
	d.AddActionNode(bootMemoryTrain, bootStepMemoryTrain)
	d.AddActionNode(bootFirmwareLoad, bootStepFirmwareLoad)
	d.AddActionNode(bootHandoffToOS, bootStepHandoffToOS)

	d.AddDecisionNode(decisionMemoryIntegrity, 2)

	d.AddInitialFlow(bootPowerGood, nil)
	d.AddFlow(bootPowerGood, bootMemoryTrain, nil)
	d.AddFlow(bootMemoryTrain, -decisionMemoryIntegrity, nil)
	d.AddFlow(bootFirmwareLoad, bootHandoffToOS, nil)
	d.AddFlow(bootHandoffToOS, pr.Final, nil)

	d.AddFlow(-decisionMemoryIntegrity, bootFirmwareLoad, memoryTrainedGuard)
	d.AddFlow(-decisionMemoryIntegrity, pr.Final, nil)

	if d.ErrorCode() != pr.ErrNone {
		return nil
	}
	return d
}

func bootUserData(d *pr.Descriptor) *HostUserData {
	ud, _ := d.UserData().(*HostUserData)
	return ud
}

func bootStepPowerGood(d *pr.Descriptor) {
	if bootLogger != nil {
		bootLogger.Info("boot step", "step", "power_good")
	}
	if ud := bootUserData(d); ud != nil {
		ud.mu.Lock()
		ud.bootAttempts++
		ud.bootOK = false
		ud.mu.Unlock()
	}
}

func bootStepMemoryTrain(d *pr.Descriptor) {
	if bootLogger != nil {
		bootLogger.Info("boot step", "step", "memory_train")
	}
}

func bootStepFirmwareLoad(d *pr.Descriptor) {
	if bootLogger != nil {
		bootLogger.Info("boot step", "step", "firmware_load")
	}
}

func bootStepHandoffToOS(d *pr.Descriptor) {
	if bootLogger != nil {
		bootLogger.Info("boot step", "step", "handoff_to_os")
	}
	if ud := bootUserData(d); ud != nil {
		ud.setBootOK(true)
	}
}

// memoryTrainedGuard reports whether the thermal zone recorded by the shared
// HostUserData was nominal at the time memory training ran; a host that was
// already thermally compromised mid-boot does not get to proceed to
// firmware load.
func memoryTrainedGuard(d *pr.Descriptor) bool {
	ud := bootUserData(d)
	if ud == nil {
		return true
	}
	return ud.getThermalState() != thermalCritical
}
