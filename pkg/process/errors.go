// SPDX-License-Identifier: BSD-3-Clause

package process

import "errors"

var (
	// ErrServicePanic indicates a supervised service panicked; process.New's
	// wrapper converts the panic into this error so oversight restarts the
	// child instead of the panic taking the whole tree down.
	ErrServicePanic = errors.New("service panicked during execution")
	// ErrInvalidService indicates a nil or unusable service was handed to the
	// supervisor.
	ErrInvalidService = errors.New("invalid service provided")
)
