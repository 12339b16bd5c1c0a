package timesheet

import (
	"go-timesheet/internal/geolocation"
	"go-timesheet/internal/workday"
)

// Actor is the authenticated employee performing a request.
type Actor struct {
	CompanyID    string
	EmployeeID   string
	EmployeeName string
}

type StartRequest struct {
	Location *geolocation.Location `json:"location"`
}

type PauseRequest struct {
	Reason   string                `json:"reason" binding:"required,max=255"`
	Location *geolocation.Location `json:"location"`
}

type ResumeRequest struct {
	Location *geolocation.Location `json:"location"`
}

type EndRequest struct {
	Location *geolocation.Location `json:"location"`
}

type SignatureRequest struct {
	Signature string `json:"signature" binding:"required"`
}

// ListFilter narrows GetAll. Dates are YYYY-MM-DD and inclusive.
type ListFilter struct {
	EmployeeID string `form:"employee_id"`
	From       string `form:"from"`
	To         string `form:"to"`
	Status     string `form:"status"`
}

type PauseResponse struct {
	StartTime      string                `json:"start_time"`
	EndTime        *string               `json:"end_time"`
	Reason         string                `json:"reason"`
	Location       *geolocation.Location `json:"location,omitempty"`
	ResumeLocation *geolocation.Location `json:"resume_location,omitempty"`
}

type LocationResponse struct {
	StartLocation *geolocation.Location `json:"start_location"`
	EndLocation   *geolocation.Location `json:"end_location"`
}

// TimesheetResponse carries the entry fields under the same keys as
// workday.Entry plus the derived durations.
type TimesheetResponse struct {
	ID                string           `json:"id"`
	CompanyID         string           `json:"company_id"`
	EmployeeID        string           `json:"employee_id"`
	EmployeeName      string           `json:"employee_name"`
	Date              string           `json:"date"`
	Status            string           `json:"status"`
	StartTime         *string          `json:"start_time"`
	EndTime           *string          `json:"end_time"`
	Pauses            []PauseResponse  `json:"pauses"`
	PauseTime         []string         `json:"pause_time"`
	ResumeTime        []string         `json:"resume_time"`
	Signature         *string          `json:"signature"`
	SignedAt          *string          `json:"signed_at,omitempty"`
	Location          LocationResponse `json:"location"`
	Elapsed           string           `json:"elapsed"`
	ElapsedSeconds    int64            `json:"elapsed_seconds"`
	PausedTotal       string           `json:"paused_total"`
	Worked            *string          `json:"worked"`
	WorkedSeconds     *int64           `json:"worked_seconds"`
	AwaitingSignature bool             `json:"awaiting_signature"`
	Warnings          []string         `json:"warnings,omitempty"`
}

type WeeklySummaryResponse struct {
	EmployeeID string           `json:"employee_id"`
	WeekStart  string           `json:"week_start"`
	WeekEnd    string           `json:"week_end"`
	Days       []workday.Bucket `json:"days"`
	Total      workday.Bucket   `json:"total"`
}

type MonthlySummaryResponse struct {
	EmployeeID   string           `json:"employee_id"`
	EmployeeName string           `json:"employee_name,omitempty"`
	Year         int              `json:"year"`
	Months       []workday.Bucket `json:"months"`
	Total        workday.Bucket   `json:"total"`
}

type TeamSummaryResponse struct {
	From      string                  `json:"from"`
	To        string                  `json:"to"`
	Employees []workday.EmployeeTotal `json:"employees"`
	Total     workday.Bucket          `json:"total"`
}

type BoardEntry struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	TimesheetID  string `json:"timesheet_id"`
	Status       string `json:"status"`
	At           string `json:"at"`
}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
