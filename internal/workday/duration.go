package workday

import (
	"fmt"
	"time"
)

// Elapsed is the live worked duration shown while the day runs.
//
// The reference end is EndTime when finished, the start of the open pause
// when paused and now otherwise. An open pause is measured up to the
// reference end, so a paused entry holds a constant value.
func Elapsed(e Entry, now time.Time) time.Duration {
	if e.StartTime == nil {
		return 0
	}
	refEnd := now
	switch {
	case e.EndTime != nil:
		refEnd = *e.EndTime
	case e.Status == StatusPaused:
		if p := e.OpenPause(); p != nil {
			refEnd = p.StartTime
		}
	}
	return floor(span(*e.StartTime, refEnd) - pausedUntil(e.Pauses, refEnd))
}

// PausedTotal is the time spent paused so far, with an open pause running
// up to now.
func PausedTotal(e Entry, now time.Time) time.Duration {
	return floor(pausedUntil(e.Pauses, now))
}

// Worked is the closed interval duration of a finished day: end minus start
// minus the closed pauses. ok is false unless both start and end are set.
func Worked(e Entry) (d time.Duration, ok bool) {
	if e.StartTime == nil || e.EndTime == nil {
		return 0, false
	}
	var paused time.Duration
	for _, p := range e.Pauses {
		if p.EndTime != nil {
			paused += span(p.StartTime, *p.EndTime)
		}
	}
	return floor(span(*e.StartTime, *e.EndTime) - paused), true
}

// WorkedSeconds is Worked in whole seconds, zero for open entries.
func WorkedSeconds(e Entry) int64 {
	d, _ := Worked(e)
	return int64(d / time.Second)
}

// FormatClock renders d as HH:MM:SS. Hours do not wrap at 24.
func FormatClock(d time.Duration) string {
	return FormatSeconds(int64(d / time.Second))
}

func FormatSeconds(total int64) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}

func pausedUntil(pauses []Pause, provisionalEnd time.Time) time.Duration {
	var total time.Duration
	for _, p := range pauses {
		end := provisionalEnd
		if p.EndTime != nil {
			end = *p.EndTime
		}
		total += span(p.StartTime, end)
	}
	return total
}

// span is b-a, or zero when the pair is out of order.
func span(a, b time.Time) time.Duration {
	if b.Before(a) {
		return 0
	}
	return b.Sub(a)
}

func floor(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
