package events

import "time"

const TimesheetLifecycleTopic = "hr.timesheet.lifecycle.v1"

const (
	TimesheetStarted = "timesheet_started"
	TimesheetPaused  = "timesheet_paused"
	TimesheetResumed = "timesheet_resumed"
	TimesheetEnded   = "timesheet_ended"
	TimesheetSigned  = "timesheet_signed"
)

// TimesheetTransitionedEvent is published once per committed transition.
type TimesheetTransitionedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	TimesheetID  string    `json:"timesheet_id"`
	CompanyID    string    `json:"company_id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason,omitempty"`
	WorkDate     string    `json:"work_date"`
	OccurredAt   time.Time `json:"occurred_at"`
}
