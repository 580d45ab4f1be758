// SPDX-License-Identifier: BSD-3-Clause

package process

import (
	"context"
	"fmt"

	"cirello.io/oversight/v2"
	"github.com/onboardfw/fw/service"
)

// New creates a new oversight.ChildProcess that wraps a service.Service. It
// returns a function that can be used as a child process in an oversight
// tree: the returned function runs the service with the provided context
// and recovers from any panics, converting them to errors that include the
// service name for better debugging. This is how service/hostctl supervises
// its RT container's activation thread — the container itself owns a
// goroutine, but oversight owns the decision to restart the service that
// started it if that goroutine's host service returns an error or panics.
func New(s service.Service) oversight.ChildProcess {
	return func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %s: %v", ErrServicePanic, s.Name(), r)
			}
		}()

		return s.Run(ctx)
	}
}
