// SPDX-License-Identifier: BSD-3-Clause

package log

import (
	"fmt"
	"log/slog"

	"cirello.io/oversight/v2"
)

// NewOversightLogger adapts a slog.Logger to oversight's plain variadic
// logger shape, so the supervision tree wrapping HostPowerService and
// SensorPoller logs restart decisions through the same structured pipeline
// as the services it supervises. Supervision chatter lands at Debug level.
func NewOversightLogger(l *slog.Logger) oversight.Logger {
	return func(args ...any) {
		l.Debug("oversight", "msg", fmt.Sprint(args...))
	}
}
