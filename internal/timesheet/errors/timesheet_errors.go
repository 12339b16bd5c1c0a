package timesheeterrors

import (
	"go-timesheet/internal/shared/apperror"
	"net/http"
)

var (
	ErrTimesheetNotFound = apperror.New(
		apperror.CodeNotFound,
		"Timesheet not found",
		http.StatusNotFound,
	)
	ErrTimesheetAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A timesheet for this employee and date already exists",
		http.StatusConflict,
	)
	ErrInvalidTimesheetID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid timesheet ID",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"From date must not be after to date",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid year",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid timesheet status",
		http.StatusBadRequest,
	)
	ErrInvalidExportFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Export format must be xlsx or pdf",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"A reason is required to pause",
		http.StatusBadRequest,
	)
	ErrSignatureRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Signature is required",
		http.StatusBadRequest,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"Only the owning employee can change this timesheet",
		http.StatusForbidden,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"This action is not allowed in the current timesheet status",
		http.StatusConflict,
	)
	ErrSignatureAlreadyAttached = apperror.New(
		apperror.CodeInvalidState,
		"This timesheet is already signed",
		http.StatusConflict,
	)
	ErrCorruptTimesheet = apperror.New(
		apperror.CodeInternalError,
		"Stored timesheet is inconsistent",
		http.StatusInternalServerError,
	)
)
