// SPDX-License-Identifier: BSD-3-Clause

package hostctl

import (
	"context"
	"log/slog"
	"time"

	"github.com/onboardfw/fw/pkg/rt"
	"github.com/onboardfw/fw/pkg/sm"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// MockBackend is a deterministic stand-in for a hwmon/IPMI sensor read:
// each sensor drifts around a base temperature by a small caller-supplied
// delta instead of reading real hardware.
type MockBackend struct {
	readings []SensorReading
	step     int
	delta    float64
}

// NewMockBackend creates a backend that reports base, base+delta, base,
// base+delta, ... in sequence for the named sensor, enough to exercise the
// warning/critical thresholds deterministically in tests and the demo
// binary without real hardware.
func NewMockBackend(id string, base, delta float64) *MockBackend {
	return &MockBackend{readings: []SensorReading{{ID: id, TemperatureC: base}}, delta: delta}
}

// Read implements Backend.
func (b *MockBackend) Read() ([]SensorReading, error) {
	r := b.readings[0]
	if b.step%2 == 1 {
		r.TemperatureC += b.delta
	}
	b.step++
	return []SensorReading{r}, nil
}

// sensorPollerState is the RT container's user data: the backend to read,
// the thermal machine to drive, and the thresholds that decide which
// trigger a reading produces.
type sensorPollerState struct {
	backend   Backend
	thermal   *sm.Descriptor
	threshold Threshold
	interval  time.Duration

	pollsTotal metric.Int64Counter
	log        *slog.Logger
}

func containerUserData(c *rt.Container) *sensorPollerState {
	ud, _ := c.UserData().(*sensorPollerState)
	return ud
}

// buildSensorPoller wires an rt.Container's eight callbacks into a periodic
// temperature poll that fires triggers on the embedded thermal machine via
// a direct sm.Execute call on the same process's descriptor.
func buildSensorPoller(name string, st *sensorPollerState, tracer trace.Tracer, meter metric.Meter) *rt.Container {
	c := rt.New(
		rt.WithName(name),
		rt.WithUserData(st),
		rt.WithTracer(tracer),
		rt.WithMeter(meter),
		rt.WithSetUpNotification(sensorSetUpNotification),
		rt.WithImplementActivLogic(sensorImplementActivLogic),
		rt.WithExecFuncBehaviour(sensorExecFuncBehaviour),
		rt.WithFinalizeActivPr(sensorFinalizeActivPr),
	)
	return c
}

// sensorSetUpNotification arms the next poll by spawning a one-shot timer
// that calls Container.Notify after the poll interval elapses.
func sensorSetUpNotification(c *rt.Container) int {
	st := containerUserData(c)
	if st == nil {
		return 1
	}
	time.AfterFunc(st.interval, c.Notify)
	return 1
}

// sensorImplementActivLogic always proceeds: this poller has no notion of a
// skipped cycle, unlike a container that coalesces bursts of unrelated
// notifications.
func sensorImplementActivLogic(c *rt.Container) int {
	return 1
}

// sensorExecFuncBehaviour reads the backend, classifies each reading against
// the configured thresholds, and fires the corresponding trigger on the
// thermal machine. It always returns 0: polling only ends via Container.Stop,
// never because the functional behaviour itself decided it was done.
func sensorExecFuncBehaviour(c *rt.Container) int {
	st := containerUserData(c)
	if st == nil {
		return 0
	}

	readings, err := st.backend.Read()
	if err != nil {
		if st.log != nil {
			st.log.Warn("sensor read failed", "container", c.State().String(), "error", err)
		}
		return 0
	}

	if st.pollsTotal != nil {
		st.pollsTotal.Add(context.Background(), 1)
	}

	for _, r := range readings {
		trigger := classifyReading(r, st.threshold)
		if st.thermal != nil && st.thermal.IsStarted() {
			_ = st.thermal.Execute(sm.Trigger(trigger))
		}
		if st.log != nil {
			st.log.Debug("sensor reading", "sensor", r.ID, "temperature_c", r.TemperatureC)
		}
	}
	return 0
}

func classifyReading(r SensorReading, t Threshold) int {
	switch {
	case r.TemperatureC >= t.CriticalC:
		return triggerTempCritical
	case r.TemperatureC >= t.WarningC:
		return triggerTempWarning
	default:
		return triggerTempNominal
	}
}

func sensorFinalizeActivPr(c *rt.Container) int {
	if st := containerUserData(c); st != nil && st.log != nil {
		st.log.Info("sensor poller stopped", "container", c.State().String())
	}
	return 1
}
