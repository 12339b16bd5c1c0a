package timesheet_test

import (
	"context"
	"testing"
	"time"

	"go-timesheet/internal/events"
	"go-timesheet/internal/timesheet"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardStore_Record(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	board := timesheet.NewBoardStore(rdb)

	key := timesheet.GetBoardKey("company-1", "2026-03-02")
	mock.Regexp().ExpectHSet(key, "emp-1", ".*").SetVal(1)
	mock.ExpectExpire(key, timesheet.BoardTTL).SetVal(true)

	err := board.Record(context.Background(), events.TimesheetTransitionedEvent{
		TimesheetID:  "ts-1",
		CompanyID:    "company-1",
		EmployeeID:   "emp-1",
		EmployeeName: "Ana",
		Status:       "paused",
		WorkDate:     "2026-03-02",
		OccurredAt:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardStore_List(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	board := timesheet.NewBoardStore(rdb)

	mock.ExpectHGetAll(timesheet.GetBoardKey("company-1", "2026-03-02")).SetVal(map[string]string{
		"emp-2": `{"employee_id":"emp-2","employee_name":"Bruno","timesheet_id":"ts-2","status":"active","at":"2026-03-02T08:00:00Z"}`,
		"emp-1": `{"employee_id":"emp-1","employee_name":"Ana","timesheet_id":"ts-1","status":"finished","at":"2026-03-02T17:00:00Z"}`,
		"emp-3": `not json`,
	})

	entries, err := board.List(context.Background(), "company-1", "2026-03-02")

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ana", entries[0].EmployeeName)
	assert.Equal(t, "finished", entries[0].Status)
	assert.Equal(t, "Bruno", entries[1].EmployeeName)
}
