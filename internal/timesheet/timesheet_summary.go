package timesheet

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go-timesheet/internal/report"
	timesheeterrors "go-timesheet/internal/timesheet/errors"
	"go-timesheet/internal/workday"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MonthlySummaryKeyPrefix = "timesheets:summary:monthly:"
	monthlySummaryTTL       = 1 * time.Hour
)

func GetMonthlySummaryKey(companyID, employeeID string, year int) string {
	return fmt.Sprintf("%s%s:%s:%d", MonthlySummaryKeyPrefix, companyID, employeeID, year)
}

func (s *service) WeeklySummary(ctx context.Context, companyID, employeeID, weekOf string) (WeeklySummaryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return WeeklySummaryResponse{}, timesheeterrors.ErrInvalidEmployeeID
	}
	day := s.now()
	if weekOf != "" {
		parsed, err := time.Parse(workday.DateLayout, weekOf)
		if err != nil {
			return WeeklySummaryResponse{}, timesheeterrors.ErrInvalidDate
		}
		day = parsed
	}
	monday := workday.WeekStart(day)
	sunday := monday.AddDate(0, 0, 6)

	rows, err := s.repo.FindAll(ctx, companyID, RepoFilter{EmployeeID: employeeID, From: &monday, To: &sunday})
	if err != nil {
		s.logger.Error("weekly summary query failed", zap.Error(err))
		return WeeklySummaryResponse{}, mapRepositoryError(err)
	}

	days := workday.Week(toEntries(rows), monday)
	return WeeklySummaryResponse{
		EmployeeID: employeeID,
		WeekStart:  monday.Format(workday.DateLayout),
		WeekEnd:    sunday.Format(workday.DateLayout),
		Days:       days,
		Total:      workday.Total(days),
	}, nil
}

func (s *service) MonthlySummary(ctx context.Context, companyID, employeeID string, year int) (MonthlySummaryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return MonthlySummaryResponse{}, timesheeterrors.ErrInvalidEmployeeID
	}
	if year < 1970 || year > 9999 {
		return MonthlySummaryResponse{}, timesheeterrors.ErrInvalidYear
	}
	cacheKey := GetMonthlySummaryKey(companyID, employeeID, year)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp MonthlySummaryResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		rows, err := s.repo.FindAll(ctx, companyID, RepoFilter{EmployeeID: employeeID, From: &from, To: &to})
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		months := workday.Year(toEntries(rows), year)
		resp := MonthlySummaryResponse{
			EmployeeID: employeeID,
			Year:       year,
			Months:     months,
			Total:      workday.Total(months),
		}
		if len(rows) > 0 {
			resp.EmployeeName = rows[0].EmployeeName
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, monthlySummaryTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("monthly summary failed", zap.String("key", cacheKey), zap.Error(err))
		return MonthlySummaryResponse{}, err
	}
	return v.(MonthlySummaryResponse), nil
}

func (s *service) TeamSummary(ctx context.Context, companyID, from, to string) (TeamSummaryResponse, error) {
	if from == "" || to == "" {
		today := workDate(s.now())
		if from == "" {
			from = today.AddDate(0, 0, -6).Format(workday.DateLayout)
		}
		if to == "" {
			to = today.Format(workday.DateLayout)
		}
	}
	rf, err := parseFilter(ListFilter{From: from, To: to})
	if err != nil {
		return TeamSummaryResponse{}, err
	}

	rows, err := s.repo.FindAll(ctx, companyID, rf)
	if err != nil {
		s.logger.Error("team summary query failed", zap.Error(err))
		return TeamSummaryResponse{}, mapRepositoryError(err)
	}

	employees := workday.ByEmployee(toEntries(rows))
	total := workday.Bucket{Name: "Total"}
	for _, e := range employees {
		total.Seconds += e.Seconds
	}
	total.Clock = workday.FormatSeconds(total.Seconds)

	return TeamSummaryResponse{From: from, To: to, Employees: employees, Total: total}, nil
}

func (s *service) Board(ctx context.Context, companyID, date string) ([]BoardEntry, error) {
	if date == "" {
		date = workDate(s.now()).Format(workday.DateLayout)
	} else if _, err := time.Parse(workday.DateLayout, date); err != nil {
		return nil, timesheeterrors.ErrInvalidDate
	}
	if s.board == nil {
		return []BoardEntry{}, nil
	}
	entries, err := s.board.List(ctx, companyID, date)
	if err != nil {
		s.logger.Error("board read failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}
	return entries, nil
}

func (s *service) ExportMonthly(ctx context.Context, companyID, employeeID string, year int, format string) (ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if !report.ValidFormat(format) {
		return ExportFile{}, timesheeterrors.ErrInvalidExportFormat
	}
	summary, err := s.MonthlySummary(ctx, companyID, employeeID, year)
	if err != nil {
		return ExportFile{}, err
	}

	table := report.YearTable{
		EmployeeID:   summary.EmployeeID,
		EmployeeName: summary.EmployeeName,
		Year:         summary.Year,
		Months:       summary.Months,
		GeneratedAt:  s.now(),
	}
	data, contentType, err := report.Render(table, format)
	if err != nil {
		s.logger.Error("render monthly export failed", zap.String("format", format), zap.Error(err))
		return ExportFile{}, err
	}
	return ExportFile{Filename: table.Filename(format), ContentType: contentType, Data: data}, nil
}

func toEntries(rows []Timesheet) []workday.Entry {
	out := make([]workday.Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toEntry())
	}
	return out
}
