package workday

import (
	"strings"
	"time"

	"go-timesheet/internal/geolocation"
)

type Action string

const (
	ActionStart  Action = "start"
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionEnd    Action = "end"
	ActionSign   Action = "sign"
)

func (a Action) Valid() bool {
	switch a {
	case ActionStart, ActionPause, ActionResume, ActionEnd, ActionSign:
		return true
	}
	return false
}

// CapturesLocation reports whether the action records a location snapshot.
func (a Action) CapturesLocation() bool {
	return a != ActionSign && a.Valid()
}

// Allowed reports whether action may be applied from status.
func Allowed(status Status, action Action) bool {
	switch action {
	case ActionStart:
		return status == StatusNotStarted
	case ActionPause:
		return status == StatusActive
	case ActionResume:
		return status == StatusPaused
	case ActionEnd:
		return status == StatusActive || status == StatusPaused
	case ActionSign:
		return status == StatusFinished
	}
	return false
}

// Start begins the day at at.
func (e *Entry) Start(at time.Time, loc *geolocation.Location) error {
	if err := e.guard(ActionStart); err != nil {
		return err
	}
	at = e.clamp(at)
	e.StartTime = &at
	e.Location.Start = loc.Clone()
	e.Status = StatusActive
	return nil
}

// Pause opens a pause interval. The reason must not be blank.
func (e *Entry) Pause(at time.Time, reason string, loc *geolocation.Location) error {
	if err := e.guard(ActionPause); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	e.Pauses = append(e.Pauses, Pause{
		StartTime: e.clamp(at),
		Reason:    reason,
		Location:  loc.Clone(),
	})
	e.Status = StatusPaused
	return nil
}

// Resume closes the open pause interval.
func (e *Entry) Resume(at time.Time, loc *geolocation.Location) error {
	if err := e.guard(ActionResume); err != nil {
		return err
	}
	p := e.OpenPause()
	if p == nil {
		return invalid("paused entry has no open pause")
	}
	at = e.clamp(at)
	p.EndTime = &at
	p.ResumeLocation = loc.Clone()
	e.Status = StatusActive
	return nil
}

// End finishes the day. Ending while paused applies CloseTrailingPause.
func (e *Entry) End(at time.Time, loc *geolocation.Location) error {
	if err := e.guard(ActionEnd); err != nil {
		return err
	}
	at = e.clamp(at)
	CloseTrailingPause(e, at)
	e.EndTime = &at
	e.Location.End = loc.Clone()
	e.Status = StatusFinished
	return nil
}

// AttachSignature completes the end of day flow.
func (e *Entry) AttachSignature(signature string) error {
	if err := e.guard(ActionSign); err != nil {
		return err
	}
	if e.Signature != nil {
		return ErrSignatureAlreadyAttached
	}
	if strings.TrimSpace(signature) == "" {
		return ErrSignatureRequired
	}
	e.Signature = &signature
	return nil
}

// CloseTrailingPause closes a pause still open when the day ends, at the
// end instant. The trailing pause time is therefore not worked time.
func CloseTrailingPause(e *Entry, at time.Time) {
	if p := e.OpenPause(); p != nil {
		end := at
		p.EndTime = &end
	}
}

func (e *Entry) guard(action Action) error {
	if !Allowed(e.Status, action) {
		return &TransitionError{Action: action, From: e.Status}
	}
	return nil
}

// clamp moves at forward to the latest instant already on the entry.
func (e *Entry) clamp(at time.Time) time.Time {
	if last, ok := e.latest(); ok && at.Before(last) {
		return last
	}
	return at
}
