// SPDX-License-Identifier: ice License 1.0

package schedule

import (
	"github.com/pkg/errors"
)

// Public API.

var (
	ErrInvalidTimeOfDay = errors.New("time of day has invalid format")
)

type (
	// TimeOfDay is a wall-clock target (hour:minute:second, no date) used to derive absolute future instants.
	TimeOfDay struct {
		hour   int
		minute int
		second int
	}
)

// Private API.

const (
	timeOfDayLayout = "15:04:05"
)
