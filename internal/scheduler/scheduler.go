// Package scheduler decides when the detector should be listening, and
// throttles how many recordings it is allowed to trigger in a given hour,
// following the reference firmware's switch-position state machine.
package scheduler

import (
	"time"

	"github.com/openacousticdevices/gunshotd/internal/config"
)

const secondsInMinute = 60

// Scheduler tracks the configured listening windows and the running count
// of recordings triggered in the current hour. It is not safe for
// concurrent use.
type Scheduler struct {
	periods                  []config.Period
	sleepDuration            time.Duration
	recordDuration           time.Duration
	maxRecordingsPerHour     int
	filesWrittenThisHour     int
	lastHour                 int
	hourWhenMaxWritesReached int
}

// New returns a Scheduler for up to config.MaxStartStopPeriods listening
// windows. Periods beyond the firmware's fixed limit are dropped, matching
// inListeningPeriod's activeStartStopPeriods clamp.
func New(periods []config.Period, sleepDuration, recordDuration time.Duration, maxRecordingsPerHour int) *Scheduler {
	if len(periods) > config.MaxStartStopPeriods {
		periods = periods[:config.MaxStartStopPeriods]
	}
	return &Scheduler{
		periods:                  periods,
		sleepDuration:            sleepDuration,
		recordDuration:           recordDuration,
		maxRecordingsPerHour:     maxRecordingsPerHour,
		lastHour:                 -1,
		hourWhenMaxWritesReached: -1,
	}
}

// InListeningPeriod reports whether now falls strictly inside one of the
// configured start/stop windows, matching inListeningPeriod's strict
// greater-than/less-than comparison (a window's exact start or stop second
// is itself outside the window).
func (s *Scheduler) InListeningPeriod(now time.Time) bool {
	if len(s.periods) == 0 {
		return false
	}

	now = now.UTC()
	currentSeconds := 3600*now.Hour() + 60*now.Minute() + now.Second()

	for _, p := range s.periods {
		startSeconds := secondsInMinute * p.StartMinutes
		stopSeconds := secondsInMinute * p.StopMinutes
		if currentSeconds > startSeconds && currentSeconds < stopSeconds {
			return true
		}
	}
	return false
}

// resetIfNewHour clears the per-hour recording counter when the wall-clock
// hour has advanced since the last call, matching the firmware's
// prevHour-vs-tm_hour check.
func (s *Scheduler) resetIfNewHour(now time.Time) {
	hour := now.UTC().Hour()
	if hour != s.lastHour {
		s.filesWrittenThisHour = 0
		s.lastHour = hour
	}
}

// AllowRecording reports whether a newly detected window may still be
// recorded this hour. It resets the counter on an hour boundary and
// refuses once the configured per-hour cap has already been reached for
// the current hour, mirroring the firmware's hourWhenMaxWritesReached
// short-circuit on wake.
func (s *Scheduler) AllowRecording(now time.Time) bool {
	s.resetIfNewHour(now)

	if s.hourWhenMaxWritesReached == now.UTC().Hour() {
		return false
	}
	return s.filesWrittenThisHour < s.maxRecordingsPerHour
}

// RecordWritten accounts for a recording just triggered at now, latching
// the hour-when-capped marker once the per-hour cap is reached.
func (s *Scheduler) RecordWritten(now time.Time) {
	s.resetIfNewHour(now)
	s.filesWrittenThisHour++

	if s.filesWrittenThisHour >= s.maxRecordingsPerHour {
		s.hourWhenMaxWritesReached = now.UTC().Hour()
	} else {
		s.hourWhenMaxWritesReached = -1
	}
}

// NextWakeDuration returns how long to sleep before the next check,
// matching SAVE_SWITCH_POSITION_AND_POWER_DOWN's use of the configured
// sleep duration between listening-period polls.
func (s *Scheduler) NextWakeDuration() time.Duration {
	return s.sleepDuration
}

// RecordDuration returns the configured maximum continuous recording
// length for a non-detection-triggered (switch-default) recording.
func (s *Scheduler) RecordDuration() time.Duration {
	return s.recordDuration
}
