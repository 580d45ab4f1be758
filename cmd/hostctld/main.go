// SPDX-License-Identifier: BSD-3-Clause

// Command hostctld demonstrates service/hostctl end to end: a single mock
// host wired up with a host power service and a sensor poller, both
// supervised by a cirello.io/oversight tree for local testing.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cirello.io/oversight/v2"

	"github.com/onboardfw/fw/pkg/log"
	"github.com/onboardfw/fw/pkg/process"
	"github.com/onboardfw/fw/pkg/telemetry"
	"github.com/onboardfw/fw/service/hostctl"
)

func main() {
	logger := log.NewDefaultLogger()
	log.RedirectStdLog(logger)

	shutdownTelemetry, err := telemetry.Setup(context.Background(),
		telemetry.WithServiceName("hostctld"),
		telemetry.WithExporterType(telemetry.Stdout),
	)
	if err != nil {
		logger.Error("telemetry setup failed, continuing without it", "error", err)
	} else {
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				logger.Error("telemetry shutdown failed", "error", err)
			}
		}()
	}

	cfg := hostctl.DefaultConfig("host0")
	cfg.Logger = logger

	host, err := hostctl.NewHostPowerService(cfg)
	if err != nil {
		logger.Error("failed to build host power service", "error", err)
		os.Exit(1)
	}
	sensors := hostctl.NewSensorPoller(cfg, host)

	tree := oversight.New(
		oversight.NeverHalt(),
		oversight.DefaultRestartStrategy(),
		oversight.WithLogger(log.NewOversightLogger(logger)),
	)

	const childTimeout = 10 * time.Second
	if err := tree.Add(process.New(host), oversight.Transient(), oversight.Timeout(childTimeout), host.Name()); err != nil {
		logger.Error("failed to add host power service to supervision tree", "error", err)
		os.Exit(1)
	}
	if err := tree.Add(process.New(sensors), oversight.Transient(), oversight.Timeout(childTimeout), sensors.Name()); err != nil {
		logger.Error("failed to add sensor poller to supervision tree", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := host.Fire(hostctl.TriggerPowerOn); err != nil {
			logger.Warn("failed to fire power-on trigger", "error", err)
		}
	}()

	if err := tree.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Error("supervision tree exited with error", "error", err)
		os.Exit(1)
	}
}
