package timesheet

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"go-timesheet/internal/events"

	"github.com/redis/go-redis/v9"
)

const (
	BoardKeyPrefix = "timesheets:board:"
	BoardTTL       = 48 * time.Hour
)

func GetBoardKey(companyID, date string) string {
	return BoardKeyPrefix + companyID + ":" + date
}

// BoardStore keeps the latest status of every employee per company and day.
//
//go:generate mockgen -source=timesheet_board.go -destination=mock/timesheet_board_mock.go -package=mock
type BoardStore interface {
	Record(ctx context.Context, event events.TimesheetTransitionedEvent) error
	List(ctx context.Context, companyID, date string) ([]BoardEntry, error)
}

type redisBoard struct {
	rdb *redis.Client
}

func NewBoardStore(rdb *redis.Client) BoardStore {
	return &redisBoard{rdb: rdb}
}

func (b *redisBoard) Record(ctx context.Context, event events.TimesheetTransitionedEvent) error {
	entry := BoardEntry{
		EmployeeID:   event.EmployeeID,
		EmployeeName: event.EmployeeName,
		TimesheetID:  event.TimesheetID,
		Status:       event.Status,
		At:           event.OccurredAt.UTC().Format(time.RFC3339),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := GetBoardKey(event.CompanyID, event.WorkDate)
	if err := b.rdb.HSet(ctx, key, event.EmployeeID, raw).Err(); err != nil {
		return err
	}
	return b.rdb.Expire(ctx, key, BoardTTL).Err()
}

func (b *redisBoard) List(ctx context.Context, companyID, date string) ([]BoardEntry, error) {
	fields, err := b.rdb.HGetAll(ctx, GetBoardKey(companyID, date)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]BoardEntry, 0, len(fields))
	for _, raw := range fields {
		var entry BoardEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeName != out[j].EmployeeName {
			return out[i].EmployeeName < out[j].EmployeeName
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}
