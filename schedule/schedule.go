// SPDX-License-Identifier: ice License 1.0

package schedule

import (
	"fmt"
	stdlibtime "time"

	"github.com/ice-blockchain/courier/terror"
	"github.com/ice-blockchain/courier/time"
)

func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parsed, err := stdlibtime.Parse(timeOfDayLayout, value)
	if err != nil {
		return TimeOfDay{}, terror.New(ErrInvalidTimeOfDay, map[string]any{"timeOfDay": value})
	}

	return TimeOfDay{hour: parsed.Hour(), minute: parsed.Minute(), second: parsed.Second()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.hour, t.minute, t.second)
}

// On returns the instant at this time-of-day on the same calendar day as the provided instant.
func (t TimeOfDay) On(day *time.Time) *time.Time {
	return time.New(stdlibtime.Date(day.Year(), day.Month(), day.Day(), t.hour, t.minute, t.second, 0, day.Location()))
}

// DelayToNextOccurrence returns the non-negative duration from now until the next occurrence of tod:
// today if that occurrence is not already past, tomorrow otherwise. An occurrence exactly equal to now yields zero.
func DelayToNextOccurrence(now *time.Time, tod TimeOfDay) stdlibtime.Duration {
	target := tod.On(now)
	if target.Before(*now.Time) {
		target = time.New(target.AddDate(0, 0, 1))
	}

	return target.Sub(*now.Time)
}

// FireInstantForBatch returns today at tod plus (batchIndex+1) calendar days.
// Deferred batch 0 fires tomorrow, batch 1 the day after, and so on: each calendar day carries exactly one batch.
func FireInstantForBatch(now *time.Time, batchIndex int, tod TimeOfDay) *time.Time {
	return time.New(tod.On(now).AddDate(0, 0, batchIndex+1))
}
