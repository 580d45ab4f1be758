// SPDX-License-Identifier: BSD-3-Clause

package hostctl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/onboardfw/fw/pkg/pr"
	"github.com/onboardfw/fw/pkg/rt"
	"github.com/onboardfw/fw/pkg/sm"
	"github.com/onboardfw/fw/pkg/telemetry"
)

// Config configures a single managed host's power control and sensor
// monitoring services.
type Config struct {
	HostName     string
	Logger       *slog.Logger
	Threshold    Threshold
	PollInterval time.Duration
	Backend      Backend
}

// DefaultConfig returns a Config with a mock backend suitable for local
// testing and the demo binary.
func DefaultConfig(hostName string) Config {
	return Config{
		HostName:     hostName,
		Logger:       slog.Default(),
		Threshold:    Threshold{WarningC: 75.0, CriticalC: 85.0},
		PollInterval: 200 * time.Millisecond,
		Backend:      NewMockBackend(hostName+"_cpu_temp", 45.0, 35.0),
	}
}

// HostPowerService wraps the host power machine (with its embedded thermal
// machine and boot procedure) as a service.Service.
type HostPowerService struct {
	name       string
	descriptor *sm.Descriptor
	thermal    *sm.Descriptor
	boot       *pr.Descriptor
	userData   *HostUserData
	log        *slog.Logger

	// machines tracks the host and thermal descriptors together so Run's
	// teardown can stop whatever is still started in one call.
	machines   *sm.Manager
	procedures *pr.Manager

	triggers chan sm.Trigger
}

// NewHostPowerService builds a ready-to-Start host power service: the host
// power machine, its embedded thermal machine, and the boot procedure they
// share through HostUserData.
func NewHostPowerService(cfg Config) (*HostPowerService, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hostLogger = logger
	bootLogger = logger

	descriptor := buildHostPowerSM(logger)
	if descriptor == nil {
		return nil, fmt.Errorf("%w: host power machine", ErrDescriptorBuild)
	}
	if err := descriptor.Check(); err != nil {
		return nil, fmt.Errorf("%w: host power machine: %v", ErrDescriptorBuild, descriptor.ErrorCode())
	}

	thermal := buildThermalSM()
	if thermal == nil {
		return nil, fmt.Errorf("%w: thermal machine", ErrDescriptorBuild)
	}
	if err := thermal.Check(); err != nil {
		return nil, fmt.Errorf("%w: thermal machine: %v", ErrDescriptorBuild, thermal.ErrorCode())
	}

	boot := buildBootProcedure()
	if boot == nil {
		return nil, fmt.Errorf("%w: boot procedure", ErrDescriptorBuild)
	}
	if err := boot.Check(); err != nil {
		return nil, fmt.Errorf("%w: boot procedure: %v", ErrDescriptorBuild, boot.ErrorCode())
	}

	if err := descriptor.EmbedSM(hostTransitioning, thermal); err != nil {
		return nil, fmt.Errorf("%w: embedding thermal machine: %v", ErrDescriptorBuild, descriptor.ErrorCode())
	}

	ud := &HostUserData{HostName: cfg.HostName, boot: boot}
	descriptor.SetUserData(ud)
	thermal.SetUserData(ud)
	boot.SetUserData(ud)

	machines := sm.NewManager()
	if err := machines.Add("host-power", descriptor); err != nil {
		return nil, fmt.Errorf("%w: registering host power machine: %v", ErrDescriptorBuild, err)
	}
	if err := machines.Add("thermal", thermal); err != nil {
		return nil, fmt.Errorf("%w: registering thermal machine: %v", ErrDescriptorBuild, err)
	}
	procedures := pr.NewManager()
	if err := procedures.Add("boot", boot); err != nil {
		return nil, fmt.Errorf("%w: registering boot procedure: %v", ErrDescriptorBuild, err)
	}

	return &HostPowerService{
		name:       cfg.HostName + "-power",
		descriptor: descriptor,
		thermal:    thermal,
		boot:       boot,
		userData:   ud,
		log:        logger,
		machines:   machines,
		procedures: procedures,
		triggers:   make(chan sm.Trigger, 8),
	}, nil
}

// Name implements service.Service.
func (s *HostPowerService) Name() string { return s.name }

// Fire queues trigger for the next Execute cycle. Safe to call from any
// goroutine; the machine itself is driven single-threaded from Run.
func (s *HostPowerService) Fire(trigger int) error {
	select {
	case s.triggers <- sm.Trigger(trigger):
		return nil
	default:
		return ErrInvalidTrigger
	}
}

// Run implements service.Service: it starts the host power machine and
// drives it with whatever triggers arrive on s.triggers until ctx is
// cancelled, tracing each Execute and logging the ones that fail.
func (s *HostPowerService) Run(ctx context.Context) error {
	if err := s.descriptor.Start(); err != nil {
		return fmt.Errorf("hostctl: starting host power machine: %w", err)
	}
	// Stopping the host machine also stops the embedded thermal machine, but
	// going through the manager catches a thermal descriptor left started by
	// a future topology change, and stops the boot procedure mid-POST.
	defer func() {
		_ = s.machines.StopAll()
		_ = s.procedures.StopAll()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-s.triggers:
			if err := s.fire(ctx, t); err != nil {
				s.log.ErrorContext(ctx, "host power transition failed", "host", s.userData.HostName, "error", err)
			}
		}
	}
}

func (s *HostPowerService) fire(ctx context.Context, trigger sm.Trigger) error {
	return telemetry.WithSpan(ctx, "hostctl", "sm_execute", func(spanCtx context.Context) error {
		telemetry.SetSpanAttributes(spanCtx,
			telemetry.StringAttr("host", s.userData.HostName),
			telemetry.StringAttr("machine_id", s.descriptor.ID().String()),
			telemetry.IntAttr("state", s.descriptor.CurrentState()),
		)
		err := s.descriptor.Execute(trigger)
		if err != nil {
			telemetry.RecordError(spanCtx, err, "sm execute failed")
		}
		return err
	})
}

// CurrentState reports the host power machine's current proper-state id.
func (s *HostPowerService) CurrentState() int { return s.descriptor.CurrentState() }

// SensorPoller wraps an rt.Container polling a Backend and feeding readings
// into a HostPowerService's embedded thermal machine via a direct
// in-process call.
type SensorPoller struct {
	name      string
	container *rt.Container
}

// NewSensorPoller builds a poller targeting host's embedded thermal machine.
func NewSensorPoller(cfg Config, host *HostPowerService) *SensorPoller {
	st := &sensorPollerState{
		backend:   cfg.Backend,
		thermal:   host.thermal,
		threshold: cfg.Threshold,
		interval:  cfg.PollInterval,
		log:       cfg.Logger,
	}
	if counter, err := telemetry.Counter("sensors", "sensor_polls_total",
		"Total number of sensor poll cycles executed", "1"); err == nil {
		st.pollsTotal = counter
	}

	container := buildSensorPoller(cfg.HostName+"-sensors", st,
		telemetry.GetTracer("sensors"), telemetry.GetMeter("sensors"))

	return &SensorPoller{name: cfg.HostName + "-sensors", container: container}
}

// Name implements service.Service.
func (p *SensorPoller) Name() string { return p.name }

// Run implements service.Service: it initialises and starts the container,
// then blocks until ctx is cancelled, stopping the container cleanly before
// returning so a supervised restart begins from Stopped.
func (p *SensorPoller) Run(ctx context.Context) error {
	if err := p.container.Init(); err != nil {
		return fmt.Errorf("hostctl: initialising sensor poller: %w", err)
	}
	p.container.Start(ctx)

	<-ctx.Done()

	p.container.Stop()
	p.container.WaitForTermination()
	if err := p.container.Shutdown(); err != nil {
		return fmt.Errorf("hostctl: shutting down sensor poller: %w", err)
	}
	return ctx.Err()
}
