package timesheet

import (
	"errors"
	"strings"

	"go-timesheet/internal/shared/apperror"
	timesheeterrors "go-timesheet/internal/timesheet/errors"
	"go-timesheet/internal/workday"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueEmployeeDate = "uq_timesheet_employee_date"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return timesheeterrors.ErrTimesheetNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == uniqueEmployeeDate {
			return timesheeterrors.ErrTimesheetAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueEmployeeDate) {
		return timesheeterrors.ErrTimesheetAlreadyExists
	}

	return err
}

// mapWorkdayError translates state machine rejections into API errors.
func mapWorkdayError(err error) error {
	if err == nil {
		return nil
	}

	var te *workday.TransitionError
	switch {
	case errors.As(err, &te):
		return timesheeterrors.ErrInvalidTransition.WithDetails(map[string]string{
			"action": string(te.Action),
			"status": string(te.From),
		})
	case errors.Is(err, workday.ErrReasonRequired):
		return timesheeterrors.ErrReasonRequired
	case errors.Is(err, workday.ErrSignatureRequired):
		return timesheeterrors.ErrSignatureRequired
	case errors.Is(err, workday.ErrSignatureAlreadyAttached):
		return timesheeterrors.ErrSignatureAlreadyAttached
	case errors.Is(err, workday.ErrInvalidEntry):
		return apperror.Wrap(err, timesheeterrors.ErrCorruptTimesheet.Code,
			timesheeterrors.ErrCorruptTimesheet.Message, timesheeterrors.ErrCorruptTimesheet.HTTPStatus)
	}
	return err
}
