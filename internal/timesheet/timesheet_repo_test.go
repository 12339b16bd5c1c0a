package timesheet_test

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"go-timesheet/internal/timesheet"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// allOf matches a query when every "&&" separated pattern is found in it, so
// expectations do not depend on the order gorm renders conditions in.
var allOf = sqlmock.QueryMatcherFunc(func(expected, actual string) error {
	for _, part := range strings.Split(expected, "&&") {
		re, err := regexp.Compile(strings.TrimSpace(part))
		if err != nil {
			return err
		}
		if !re.MatchString(actual) {
			return fmt.Errorf("query %q does not match %q", actual, strings.TrimSpace(part))
		}
	}
	return nil
})

type repoDeps struct {
	db   *sql.DB
	mock sqlmock.Sqlmock
	repo timesheet.Repository
}

func setupRepo(t *testing.T) *repoDeps {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(allOf))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return &repoDeps{db: db, mock: mock, repo: timesheet.NewRepository(gormDB)}
}

var (
	repoCompanyID  = uuid.MustParse("7a1e3c52-4b0f-4c1e-9a57-1f6b2d0c9e11")
	repoEmployeeID = uuid.MustParse("c3d4e5f6-0718-4293-a4b5-c6d7e8f90a1b")
	repoWorkDate   = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
)

func timesheetRows(ids ...uuid.UUID) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "company_id", "employee_id", "employee_name", "work_date", "status", "start_time"})
	start := repoWorkDate.Add(9 * time.Hour)
	for _, id := range ids {
		rows.AddRow(id.String(), repoCompanyID.String(), repoEmployeeID.String(), "Ana", repoWorkDate, "active", start)
	}
	return rows
}

func pauseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "timesheet_id", "seq", "start_time", "end_time", "reason"})
}

func TestRepository_WithTxDoesNotLeakIntoBaseHandle(t *testing.T) {
	ctx := context.Background()
	d := setupRepo(t)
	id := uuid.New()

	d.mock.ExpectBegin()
	d.mock.ExpectQuery(`FROM "timesheets" && (WHERE|AND) id = \$\d && FOR UPDATE$`).WillReturnRows(timesheetRows(id))
	d.mock.ExpectQuery(`FROM "timesheet_pauses"`).WillReturnRows(pauseRows())
	d.mock.ExpectCommit()
	d.mock.ExpectQuery(`FROM "timesheets" && (WHERE|AND) id = \$\d && LIMIT \S+$`).WillReturnRows(timesheetRows(id))
	d.mock.ExpectQuery(`FROM "timesheet_pauses"`).WillReturnRows(pauseRows())

	tx, err := d.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	txRepo := d.repo.WithTx(tx)

	_, err = txRepo.FindByID(ctx, repoCompanyID.String(), id.String())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	row, err := d.repo.FindByID(ctx, repoCompanyID.String(), id.String())
	require.NoError(t, err)
	assert.Equal(t, id, row.ID)

	_, err = txRepo.FindByID(ctx, repoCompanyID.String(), id.String())
	assert.ErrorIs(t, err, sql.ErrTxDone)

	assert.NoError(t, d.mock.ExpectationsWereMet())
}

func TestRepository_FindByEmployeeAndDate(t *testing.T) {
	ctx := context.Background()
	d := setupRepo(t)
	id := uuid.New()

	pauses := pauseRows().
		AddRow(uuid.NewString(), id.String(), 1, repoWorkDate.Add(10*time.Hour), repoWorkDate.Add(10*time.Hour+15*time.Minute), "coffee").
		AddRow(uuid.NewString(), id.String(), 2, repoWorkDate.Add(13*time.Hour), nil, "lunch")

	d.mock.ExpectQuery(`FROM "timesheets" && company_id = \$\d && employee_id = \$\d && work_date = \$\d && "timesheets"."deleted_at" IS NULL`).
		WillReturnRows(timesheetRows(id))
	d.mock.ExpectQuery(`FROM "timesheet_pauses" && timesheet_id && ORDER BY seq ASC`).WillReturnRows(pauses)

	row, err := d.repo.FindByEmployeeAndDate(ctx, repoCompanyID.String(), repoEmployeeID.String(), repoWorkDate)

	require.NoError(t, err)
	assert.Equal(t, "Ana", row.EmployeeName)
	require.Len(t, row.Pauses, 2)
	assert.Equal(t, "coffee", row.Pauses[0].Reason)
	assert.Nil(t, row.Pauses[1].EndTime)
	assert.NoError(t, d.mock.ExpectationsWereMet())
}

func TestRepository_FindByEmployeeAndDateNotFound(t *testing.T) {
	d := setupRepo(t)
	d.mock.ExpectQuery(`FROM "timesheets" && company_id = \$\d`).WillReturnRows(timesheetRows())

	_, err := d.repo.FindByEmployeeAndDate(context.Background(), repoCompanyID.String(), repoEmployeeID.String(), repoWorkDate)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_FindAllAppliesTenantAndFilters(t *testing.T) {
	d := setupRepo(t)
	first, second := uuid.New(), uuid.New()
	from, to := repoWorkDate, repoWorkDate.AddDate(0, 0, 6)

	d.mock.ExpectQuery(`FROM "timesheets" && company_id = \$\d && employee_id = \$\d && work_date >= \$\d && work_date <= \$\d && status = \$\d && ORDER BY work_date DESC, employee_name ASC`).
		WillReturnRows(timesheetRows(first, second))
	d.mock.ExpectQuery(`FROM "timesheet_pauses" && timesheet_id && ORDER BY seq ASC`).
		WillReturnRows(pauseRows().AddRow(uuid.NewString(), second.String(), 1, repoWorkDate.Add(11*time.Hour), nil, "errand"))

	rows, err := d.repo.FindAll(context.Background(), repoCompanyID.String(), timesheet.RepoFilter{
		EmployeeID: repoEmployeeID.String(),
		From:       &from,
		To:         &to,
		Status:     "active",
	})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Empty(t, rows[0].Pauses)
	require.Len(t, rows[1].Pauses, 1)
	assert.Equal(t, "errand", rows[1].Pauses[0].Reason)
	assert.NoError(t, d.mock.ExpectationsWereMet())
}

func TestRepository_UpdateUpsertsPausesInTx(t *testing.T) {
	ctx := context.Background()
	d := setupRepo(t)

	id, kept, added := uuid.New(), uuid.New(), uuid.New()
	start := repoWorkDate.Add(9 * time.Hour)
	resumed := repoWorkDate.Add(10*time.Hour + 15*time.Minute)
	row := &timesheet.Timesheet{
		ID:           id,
		CompanyID:    repoCompanyID,
		EmployeeID:   repoEmployeeID,
		EmployeeName: "Ana",
		WorkDate:     repoWorkDate,
		Status:       "paused",
		StartTime:    &start,
		Pauses: []timesheet.TimesheetPause{
			{ID: kept, TimesheetID: id, Seq: 1, StartTime: repoWorkDate.Add(10 * time.Hour), EndTime: &resumed, Reason: "coffee"},
			{ID: added, TimesheetID: id, Seq: 2, StartTime: repoWorkDate.Add(13 * time.Hour), Reason: "lunch"},
		},
	}

	d.mock.ExpectBegin()
	d.mock.ExpectExec(`UPDATE "timesheets" SET && "status"= && WHERE`).WillReturnResult(sqlmock.NewResult(0, 1))
	d.mock.ExpectQuery(`INSERT INTO "timesheet_pauses" && VALUES \(.+\),\(.+\) && ON CONFLICT \("id"\) DO UPDATE SET`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(kept.String()).AddRow(added.String()))
	d.mock.ExpectCommit()

	tx, err := d.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, d.repo.WithTx(tx).Update(ctx, row))
	require.NoError(t, tx.Commit())

	assert.Equal(t, kept, row.Pauses[0].ID)
	assert.Equal(t, added, row.Pauses[1].ID)
	assert.NoError(t, d.mock.ExpectationsWereMet())
}
