// Package workday implements the per-employee daily timesheet record: its
// state machine, the pause ledger and the duration arithmetic derived from it.
package workday

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go-timesheet/internal/geolocation"
)

// DateLayout is the layout of Entry.Date.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusActive     Status = "active"
	StatusPaused     Status = "paused"
	StatusFinished   Status = "finished"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusActive, StatusPaused, StatusFinished:
		return true
	}
	return false
}

// Pause is one interval of suspended work. EndTime is nil while the pause
// is in progress.
type Pause struct {
	StartTime      time.Time             `json:"start_time"`
	EndTime        *time.Time            `json:"end_time"`
	Reason         string                `json:"reason"`
	Location       *geolocation.Location `json:"location,omitempty"`
	ResumeLocation *geolocation.Location `json:"resume_location,omitempty"`
}

func (p Pause) Open() bool { return p.EndTime == nil }

type Locations struct {
	Start *geolocation.Location `json:"start_location"`
	End   *geolocation.Location `json:"end_location"`
}

// Entry is one employee's record for one calendar day.
type Entry struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeName string     `json:"employee_name"`
	Date         string     `json:"date"`
	Status       Status     `json:"status"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	Pauses       []Pause    `json:"pauses"`
	Signature    *string    `json:"signature"`
	Location     Locations  `json:"location"`
}

// New returns a not started entry for the employee on the day of date.
func New(id, employeeID, employeeName string, date time.Time) Entry {
	return Entry{
		ID:           id,
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		Date:         date.Format(DateLayout),
		Status:       StatusNotStarted,
		Pauses:       []Pause{},
	}
}

// Day parses Date.
func (e Entry) Day() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// PauseTimes lists the start of every pause in order.
func (e Entry) PauseTimes() []time.Time {
	out := make([]time.Time, 0, len(e.Pauses))
	for _, p := range e.Pauses {
		out = append(out, p.StartTime)
	}
	return out
}

// ResumeTimes lists the end of every closed pause in order.
func (e Entry) ResumeTimes() []time.Time {
	out := make([]time.Time, 0, len(e.Pauses))
	for _, p := range e.Pauses {
		if p.EndTime != nil {
			out = append(out, *p.EndTime)
		}
	}
	return out
}

// OpenPause returns the pause in progress, if any.
func (e *Entry) OpenPause() *Pause {
	if n := len(e.Pauses); n > 0 && e.Pauses[n-1].Open() {
		return &e.Pauses[n-1]
	}
	return nil
}

// AwaitingSignature reports whether the day is finished but not yet signed.
func (e Entry) AwaitingSignature() bool {
	return e.Status == StatusFinished && e.Signature == nil
}

// Clone returns a deep copy of e.
func (e Entry) Clone() Entry {
	cp := e
	cp.StartTime = cloneTime(e.StartTime)
	cp.EndTime = cloneTime(e.EndTime)
	cp.Location = Locations{Start: e.Location.Start.Clone(), End: e.Location.End.Clone()}
	if e.Signature != nil {
		sig := *e.Signature
		cp.Signature = &sig
	}
	if e.Pauses != nil {
		cp.Pauses = make([]Pause, len(e.Pauses))
		for i, p := range e.Pauses {
			cp.Pauses[i] = Pause{
				StartTime:      p.StartTime,
				EndTime:        cloneTime(p.EndTime),
				Reason:         p.Reason,
				Location:       p.Location.Clone(),
				ResumeLocation: p.ResumeLocation.Clone(),
			}
		}
	}
	return cp
}

// Validate checks that e is a record the transitions could have produced.
func (e Entry) Validate() error {
	if !e.Status.Valid() {
		return invalid("unknown status %q", e.Status)
	}
	if strings.TrimSpace(e.EmployeeID) == "" {
		return invalid("employee id is required")
	}
	if _, err := e.Day(); err != nil {
		return invalid("date %q is not YYYY-MM-DD", e.Date)
	}

	if e.Status == StatusNotStarted {
		if e.StartTime != nil || e.EndTime != nil || len(e.Pauses) > 0 {
			return invalid("not started entry carries times")
		}
	} else if e.StartTime == nil {
		return invalid("%s entry has no start time", e.Status)
	}

	if (e.Status == StatusFinished) != (e.EndTime != nil) {
		return invalid("end time must be set exactly when finished")
	}
	if e.Signature != nil && e.Status != StatusFinished {
		return invalid("signature on an unfinished entry")
	}

	for i, p := range e.Pauses {
		if p.Open() && i != len(e.Pauses)-1 {
			return invalid("pause %d is open but not last", i)
		}
	}
	open := e.OpenPause() != nil
	if (e.Status == StatusPaused) != open {
		return invalid("%s entry with open pause = %t", e.Status, open)
	}

	last := e.StartTime
	check := func(t *time.Time, what string) error {
		if t == nil {
			return nil
		}
		if last != nil && t.Before(*last) {
			return invalid("%s precedes an earlier instant", what)
		}
		last = t
		return nil
	}
	for i := range e.Pauses {
		if err := check(&e.Pauses[i].StartTime, fmt.Sprintf("pause %d start", i)); err != nil {
			return err
		}
		if err := check(e.Pauses[i].EndTime, fmt.Sprintf("pause %d end", i)); err != nil {
			return err
		}
	}
	return check(e.EndTime, "end time")
}

type wireEntry struct {
	entryAlias
	PauseTime  []time.Time `json:"pause_time"`
	ResumeTime []time.Time `json:"resume_time"`
}

type entryAlias Entry

// MarshalJSON adds the derived pause_time and resume_time sequences.
func (e Entry) MarshalJSON() ([]byte, error) {
	a := entryAlias(e)
	if a.Pauses == nil {
		a.Pauses = []Pause{}
	}
	return json.Marshal(wireEntry{entryAlias: a, PauseTime: e.PauseTimes(), ResumeTime: e.ResumeTimes()})
}

// UnmarshalJSON reads the pause ledger and ignores the derived sequences.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Entry(w.entryAlias)
	return nil
}

// latest is the most recent instant recorded on e.
func (e Entry) latest() (time.Time, bool) {
	var (
		out time.Time
		ok  bool
	)
	see := func(t *time.Time) {
		if t != nil && (!ok || t.After(out)) {
			out, ok = *t, true
		}
	}
	see(e.StartTime)
	for i := range e.Pauses {
		see(&e.Pauses[i].StartTime)
		see(e.Pauses[i].EndTime)
	}
	see(e.EndTime)
	return out, ok
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
