package tracker

import (
	"errors"
	"fmt"

	"go-timesheet/internal/workday"

	"go.uber.org/zap"
)

// Notifier surfaces the outcome of an action to the user.
type Notifier interface {
	Success(msg string)
	Warning(msg string)
	Error(msg string)
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier reports notifications as log lines.
func NewLogNotifier(logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.L()
	}
	return &logNotifier{logger: logger.Named("notify")}
}

func (n *logNotifier) Success(msg string) { n.logger.Info(msg) }
func (n *logNotifier) Warning(msg string) { n.logger.Warn(msg) }
func (n *logNotifier) Error(msg string)   { n.logger.Error(msg) }

func successMessage(a workday.Action) string {
	switch a {
	case workday.ActionStart:
		return "Workday started"
	case workday.ActionPause:
		return "Pause recorded"
	case workday.ActionResume:
		return "Work resumed"
	case workday.ActionEnd:
		return "Workday ended, a signature is required to complete it"
	case workday.ActionSign:
		return "Signature attached, workday complete"
	}
	return "Done"
}

func errorMessage(err error) string {
	var te *workday.TransitionError
	switch {
	case errors.As(err, &te):
		return fmt.Sprintf("Cannot %s while the day is %s", te.Action, humanStatus(te.From))
	case errors.Is(err, workday.ErrReasonRequired):
		return "A reason is required to pause"
	case errors.Is(err, workday.ErrSignatureRequired):
		return "A signature is required"
	case errors.Is(err, workday.ErrSignatureAlreadyAttached):
		return "This day is already signed"
	}
	return err.Error()
}

func humanStatus(s workday.Status) string {
	switch s {
	case workday.StatusNotStarted:
		return "not started"
	case workday.StatusActive:
		return "active"
	case workday.StatusPaused:
		return "paused"
	case workday.StatusFinished:
		return "finished"
	}
	return string(s)
}
