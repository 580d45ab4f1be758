// SPDX-License-Identifier: BSD-3-Clause

// Package process provides utilities for managing service processes within
// an oversight supervision tree. This package bridges the gap between the
// service interface and the oversight process supervisor, enabling robust
// process management with automatic restart capabilities and panic recovery.
//
// The package is designed to work with the onboardfw service architecture,
// where components built on pkg/sm, pkg/pr and pkg/rt run as long-lived
// goroutines that an oversight.Tree restarts on failure.
//
// # Core Functionality
//
// The package provides a single primary function `New()` that creates an
// oversight.ChildProcess wrapper around a service.Service. This wrapper
// handles:
//
//   - Service lifecycle management (start, stop, restart)
//   - Panic recovery with detailed error reporting
//   - Context-based cancellation
//
// # Basic Usage
//
// Creating a supervised service process:
//
//	type MyService struct {
//		name string
//	}
//
//	func (s *MyService) Name() string { return s.name }
//
//	func (s *MyService) Run(ctx context.Context) error {
//		<-ctx.Done()
//		return ctx.Err()
//	}
//
//	func setupService() oversight.ChildProcess {
//		svc := &MyService{name: "my-service"}
//		return process.New(svc)
//	}
//
// # Oversight Tree Integration
//
// service/hostctl wraps its host power control service (an sm.Descriptor
// with an embedded thermal sm.Descriptor) and its sensor poller (an
// rt.Container) as two service.Service implementations, then supervises
// both from the same tree:
//
//	func setupSupervisionTree(host, sensors service.Service) error {
//		t := oversight.New(
//			oversight.WithSpecification(1, time.Minute, oversight.OneForOne()),
//			oversight.WithLogger(log.NewOversightLogger(log.NewDefaultLogger())),
//			oversight.WithRestart(process.New(host), oversight.Permanent()),
//			oversight.WithRestart(process.New(sensors), oversight.Permanent()),
//		)
//		return t.Start(context.Background())
//	}
//
// # Service Implementation Pattern
//
// A service wrapping an rt.Container typically starts the container in
// Run, waits on ctx.Done or the container's own termination, and stops the
// container before returning so the next oversight restart begins clean:
//
//	type SensorPoller struct {
//		name      string
//		container *rt.Container
//	}
//
//	func (s *SensorPoller) Name() string { return s.name }
//
//	func (s *SensorPoller) Run(ctx context.Context) error {
//		s.container.Start(ctx)
//		<-ctx.Done()
//		s.container.Stop()
//		s.container.WaitForTermination()
//		return s.container.Shutdown()
//	}
//
// # Panic Recovery
//
// The package automatically handles panics and converts them to errors:
//
//	func (s *PanicProneService) Run(ctx context.Context) error {
//		if someCondition {
//			panic("something went wrong")
//		}
//		return nil
//	}
//
//	// When used with process.New(), the panic becomes:
//	// Error: "service panicked during execution: panic-prone-service: something went wrong"
//
// # Best Practices
//
// When using this package:
//
//   - Implement proper context handling in service Run() methods
//   - Use structured logging with service names for better observability
//   - Stop any rt.Container before returning from Run so a restart begins
//     from a clean Stopped state
//   - Avoid long-running blocking operations without context checks
package process
