package timesheet

import (
	"time"

	"go-timesheet/internal/geolocation"
	"go-timesheet/internal/workday"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationColumns is a nullable geolocation snapshot embedded with a prefix.
type LocationColumns struct {
	Latitude   *float64   `gorm:"column:latitude"`
	Longitude  *float64   `gorm:"column:longitude"`
	Accuracy   *float64   `gorm:"column:accuracy"`
	CapturedAt *time.Time `gorm:"column:captured_at;type:timestamptz"`
}

type Timesheet struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID        `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_timesheet_employee_date,priority:1"`
	EmployeeID    uuid.UUID        `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_timesheet_employee_date,priority:2;index"`
	EmployeeName  string           `gorm:"column:employee_name;type:varchar(150);not null"`
	WorkDate      time.Time        `gorm:"column:work_date;type:date;not null;uniqueIndex:uq_timesheet_employee_date,priority:3;index"`
	Status        string           `gorm:"column:status;type:varchar(20);not null;default:not_started"`
	StartTime     *time.Time       `gorm:"column:start_time;type:timestamptz"`
	EndTime       *time.Time       `gorm:"column:end_time;type:timestamptz"`
	StartLocation LocationColumns  `gorm:"embedded;embeddedPrefix:start_"`
	EndLocation   LocationColumns  `gorm:"embedded;embeddedPrefix:end_"`
	Signature     *string          `gorm:"column:signature;type:text"`
	SignedAt      *time.Time       `gorm:"column:signed_at;type:timestamptz"`
	CreatedAt     time.Time        `gorm:"column:created_at"`
	UpdatedAt     time.Time        `gorm:"column:updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"column:deleted_at;index"`
	Pauses        []TimesheetPause `gorm:"foreignKey:TimesheetID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Timesheet) TableName() string {
	return "timesheets"
}

type TimesheetPause struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TimesheetID    uuid.UUID       `gorm:"column:timesheet_id;type:uuid;not null;uniqueIndex:uq_timesheet_pause_seq,priority:1"`
	Seq            int             `gorm:"column:seq;not null;uniqueIndex:uq_timesheet_pause_seq,priority:2"`
	StartTime      time.Time       `gorm:"column:start_time;type:timestamptz;not null"`
	EndTime        *time.Time      `gorm:"column:end_time;type:timestamptz"`
	Reason         string          `gorm:"column:reason;type:varchar(255);not null"`
	Location       LocationColumns `gorm:"embedded;embeddedPrefix:pause_"`
	ResumeLocation LocationColumns `gorm:"embedded;embeddedPrefix:resume_"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (TimesheetPause) TableName() string {
	return "timesheet_pauses"
}

func (c LocationColumns) toLocation() *geolocation.Location {
	if c.Latitude == nil || c.Longitude == nil {
		return nil
	}
	loc := &geolocation.Location{Latitude: *c.Latitude, Longitude: *c.Longitude}
	if c.Accuracy != nil {
		loc.Accuracy = *c.Accuracy
	}
	if c.CapturedAt != nil {
		loc.CapturedAt = *c.CapturedAt
	}
	return loc
}

func locationColumns(loc *geolocation.Location) LocationColumns {
	if loc == nil {
		return LocationColumns{}
	}
	lat, lon, acc := loc.Latitude, loc.Longitude, loc.Accuracy
	c := LocationColumns{Latitude: &lat, Longitude: &lon, Accuracy: &acc}
	if !loc.CapturedAt.IsZero() {
		at := loc.CapturedAt
		c.CapturedAt = &at
	}
	return c
}

// toEntry converts a stored row into the workday model.
func (t Timesheet) toEntry() workday.Entry {
	e := workday.Entry{
		ID:           t.ID.String(),
		EmployeeID:   t.EmployeeID.String(),
		EmployeeName: t.EmployeeName,
		Date:         t.WorkDate.Format(workday.DateLayout),
		Status:       workday.Status(t.Status),
		StartTime:    t.StartTime,
		EndTime:      t.EndTime,
		Pauses:       make([]workday.Pause, 0, len(t.Pauses)),
		Signature:    t.Signature,
		Location: workday.Locations{
			Start: t.StartLocation.toLocation(),
			End:   t.EndLocation.toLocation(),
		},
	}
	for _, p := range t.Pauses {
		e.Pauses = append(e.Pauses, workday.Pause{
			StartTime:      p.StartTime,
			EndTime:        p.EndTime,
			Reason:         p.Reason,
			Location:       p.Location.toLocation(),
			ResumeLocation: p.ResumeLocation.toLocation(),
		})
	}
	return e.Clone()
}

// applyEntry copies the mutable workday state back onto the row. Existing
// pause rows keep their ids; new pauses get the next sequence number.
func (t *Timesheet) applyEntry(e workday.Entry) {
	t.Status = string(e.Status)
	t.StartTime = e.StartTime
	t.EndTime = e.EndTime
	t.Signature = e.Signature
	t.StartLocation = locationColumns(e.Location.Start)
	t.EndLocation = locationColumns(e.Location.End)

	for i, p := range e.Pauses {
		if i >= len(t.Pauses) {
			t.Pauses = append(t.Pauses, TimesheetPause{
				ID:          uuid.New(),
				TimesheetID: t.ID,
				Seq:         i + 1,
			})
		}
		row := &t.Pauses[i]
		row.StartTime = p.StartTime
		row.EndTime = p.EndTime
		row.Reason = p.Reason
		row.Location = locationColumns(p.Location)
		row.ResumeLocation = locationColumns(p.ResumeLocation)
	}
}
