package timesheet

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-timesheet/internal/events"
	"go-timesheet/internal/geolocation"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/shared/contextutil"
	timesheeterrors "go-timesheet/internal/timesheet/errors"
	"go-timesheet/internal/workday"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const aggregateType = "timesheet"

//go:generate mockgen -source=timesheet_service.go -destination=mock/timesheet_service_mock.go -package=mock
type Service interface {
	GetToday(ctx context.Context, actor Actor) (TimesheetResponse, error)
	Start(ctx context.Context, actor Actor, req StartRequest) (TimesheetResponse, error)
	Pause(ctx context.Context, actor Actor, id string, req PauseRequest) (TimesheetResponse, error)
	Resume(ctx context.Context, actor Actor, id string, req ResumeRequest) (TimesheetResponse, error)
	End(ctx context.Context, actor Actor, id string, req EndRequest) (TimesheetResponse, error)
	AttachSignature(ctx context.Context, actor Actor, id string, req SignatureRequest) (TimesheetResponse, error)
	GetByID(ctx context.Context, companyID, actorID, id string, canReadAll bool) (TimesheetResponse, error)
	GetAll(ctx context.Context, companyID, actorID string, canReadAll bool, filter ListFilter) ([]TimesheetResponse, error)
	WeeklySummary(ctx context.Context, companyID, employeeID, weekOf string) (WeeklySummaryResponse, error)
	MonthlySummary(ctx context.Context, companyID, employeeID string, year int) (MonthlySummaryResponse, error)
	TeamSummary(ctx context.Context, companyID, from, to string) (TeamSummaryResponse, error)
	Board(ctx context.Context, companyID, date string) ([]BoardEntry, error)
	ExportMonthly(ctx context.Context, companyID, employeeID string, year int, format string) (ExportFile, error)
}

// Options configures optional collaborators. Zero values fall back to
// the system clock, the default geolocation timeout and no board.
type Options struct {
	Clock      workday.Clock
	GeoTimeout time.Duration
	Board      BoardStore
}

type service struct {
	db         *sql.DB
	repo       Repository
	outbox     kafka.OutboxRepository
	rdb        *redis.Client
	board      BoardStore
	sf         *singleflight.Group
	clock      workday.Clock
	geoTimeout time.Duration
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("timesheet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timesheet.service")
	}
	clock := opts.Clock
	if clock == nil {
		clock = workday.SystemClock
	}
	geoTimeout := opts.GeoTimeout
	if geoTimeout <= 0 {
		geoTimeout = geolocation.DefaultTimeout
	}
	return &service{
		db:         db,
		repo:       repo,
		outbox:     outboxRepo,
		rdb:        rdb,
		board:      opts.Board,
		sf:         &singleflight.Group{},
		clock:      clock,
		geoTimeout: geoTimeout,
		logger:     l,
	}
}

func (s *service) now() time.Time {
	return s.clock.Now().UTC()
}

func workDate(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *service) GetToday(ctx context.Context, actor Actor) (TimesheetResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if err := validateActor(actor); err != nil {
		return TimesheetResponse{}, err
	}
	now := s.now()
	today := workDate(now)

	row, err := s.repo.FindByEmployeeAndDate(ctx, actor.CompanyID, actor.EmployeeID, today)
	if err == nil {
		return mapToResponse(*row, now), nil
	}
	if !errors.Is(mapRepositoryError(err), timesheeterrors.ErrTimesheetNotFound) {
		log.Error("get today timesheet failed", zap.Error(err))
		return TimesheetResponse{}, mapRepositoryError(err)
	}

	row = newTimesheet(actor, today)
	if err := s.repo.Create(ctx, row); err != nil {
		mapped := mapRepositoryError(err)
		if !errors.Is(mapped, timesheeterrors.ErrTimesheetAlreadyExists) {
			log.Error("create today timesheet failed", zap.Error(err))
			return TimesheetResponse{}, mapped
		}
		// Lost a race with a concurrent request for the same day.
		row, err = s.repo.FindByEmployeeAndDate(ctx, actor.CompanyID, actor.EmployeeID, today)
		if err != nil {
			return TimesheetResponse{}, mapRepositoryError(err)
		}
	}

	log.Info("today timesheet created",
		zap.String("timesheet_id", row.ID.String()),
		zap.String("employee_id", actor.EmployeeID),
	)
	return mapToResponse(*row, now), nil
}

func (s *service) Start(ctx context.Context, actor Actor, req StartRequest) (TimesheetResponse, error) {
	if err := validateActor(actor); err != nil {
		return TimesheetResponse{}, err
	}
	load := func(ctx context.Context, qtx Repository, now time.Time) (*Timesheet, bool, error) {
		row, err := qtx.FindByEmployeeAndDate(ctx, actor.CompanyID, actor.EmployeeID, workDate(now))
		if err == nil {
			return row, false, nil
		}
		if errors.Is(mapRepositoryError(err), timesheeterrors.ErrTimesheetNotFound) {
			return newTimesheet(actor, workDate(now)), true, nil
		}
		return nil, false, err
	}
	return s.transition(ctx, actor, workday.ActionStart, req.Location, load,
		func(e *workday.Entry, now time.Time, loc *geolocation.Location) error {
			return e.Start(now, loc)
		})
}

func (s *service) Pause(ctx context.Context, actor Actor, id string, req PauseRequest) (TimesheetResponse, error) {
	return s.transitionByID(ctx, actor, id, workday.ActionPause, req.Location,
		func(e *workday.Entry, now time.Time, loc *geolocation.Location) error {
			return e.Pause(now, req.Reason, loc)
		})
}

func (s *service) Resume(ctx context.Context, actor Actor, id string, req ResumeRequest) (TimesheetResponse, error) {
	return s.transitionByID(ctx, actor, id, workday.ActionResume, req.Location,
		func(e *workday.Entry, now time.Time, loc *geolocation.Location) error {
			return e.Resume(now, loc)
		})
}

func (s *service) End(ctx context.Context, actor Actor, id string, req EndRequest) (TimesheetResponse, error) {
	return s.transitionByID(ctx, actor, id, workday.ActionEnd, req.Location,
		func(e *workday.Entry, now time.Time, loc *geolocation.Location) error {
			return e.End(now, loc)
		})
}

func (s *service) AttachSignature(ctx context.Context, actor Actor, id string, req SignatureRequest) (TimesheetResponse, error) {
	return s.transitionByID(ctx, actor, id, workday.ActionSign, nil,
		func(e *workday.Entry, _ time.Time, _ *geolocation.Location) error {
			return e.AttachSignature(req.Signature)
		})
}

type loadFunc func(ctx context.Context, qtx Repository, now time.Time) (row *Timesheet, isNew bool, err error)

type applyFunc func(e *workday.Entry, now time.Time, loc *geolocation.Location) error

func (s *service) transitionByID(
	ctx context.Context,
	actor Actor,
	id string,
	action workday.Action,
	rawLoc *geolocation.Location,
	apply applyFunc,
) (TimesheetResponse, error) {
	if err := validateActor(actor); err != nil {
		return TimesheetResponse{}, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return TimesheetResponse{}, timesheeterrors.ErrInvalidTimesheetID
	}
	load := func(ctx context.Context, qtx Repository, _ time.Time) (*Timesheet, bool, error) {
		row, err := qtx.FindByID(ctx, actor.CompanyID, id)
		return row, false, err
	}
	return s.transition(ctx, actor, action, rawLoc, load, apply)
}

// transition loads the row, applies one state machine step and persists it
// together with its outbox event in a single transaction.
func (s *service) transition(
	ctx context.Context,
	actor Actor,
	action workday.Action,
	rawLoc *geolocation.Location,
	load loadFunc,
	apply applyFunc,
) (TimesheetResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("action", string(action)),
		zap.String("employee_id", actor.EmployeeID),
	)
	log.Debug("timesheet transition requested", contextutil.ExtractMetadata(ctx).Fields()...)

	var (
		loc      *geolocation.Location
		warnings []string
	)
	if action.CapturesLocation() {
		var warn error
		loc, warn = geolocation.Capture(ctx, geolocation.Static(rawLoc), s.geoTimeout, log)
		if warn != nil {
			warnings = append(warnings, geolocation.Warning(string(action), warn))
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("timesheet transition begin tx failed", zap.Error(err))
		return TimesheetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()

	row, isNew, err := load(ctx, qtx, now)
	if err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, timesheeterrors.ErrTimesheetNotFound) {
			log.Warn("timesheet transition target not found")
		} else {
			log.Error("timesheet transition load failed", zap.Error(err))
		}
		return TimesheetResponse{}, mapped
	}
	if row.EmployeeID.String() != actor.EmployeeID {
		log.Warn("timesheet transition by non owner", zap.String("timesheet_id", row.ID.String()))
		return TimesheetResponse{}, timesheeterrors.ErrNotOwner
	}

	entry := row.toEntry()
	if err := entry.Validate(); err != nil {
		log.Error("stored timesheet is inconsistent", zap.String("timesheet_id", row.ID.String()), zap.Error(err))
		return TimesheetResponse{}, mapWorkdayError(err)
	}
	if err := apply(&entry, now, loc); err != nil {
		log.Warn("timesheet transition rejected", zap.String("status", string(entry.Status)), zap.Error(err))
		return TimesheetResponse{}, mapWorkdayError(err)
	}

	row.applyEntry(entry)
	if action == workday.ActionSign {
		row.SignedAt = &now
	}

	if isNew {
		err = qtx.Create(ctx, row)
	} else {
		err = qtx.Update(ctx, row)
	}
	if err != nil {
		log.Error("timesheet transition persist failed", zap.Error(err))
		return TimesheetResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := transitionEvent(action, rid, actor, *row, entry, now)
		outboxEvent, err := kafka.NewOutboxEvent(aggregateType, row.ID.String(), event.EventType,
			events.TimesheetLifecycleTopic, rid, event)
		if err != nil {
			log.Error("marshal event failed", zap.Error(err))
			return TimesheetResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			log.Error("timesheet transition outbox persist failed",
				zap.String("timesheet_id", row.ID.String()),
				zap.Error(err),
			)
			return TimesheetResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return TimesheetResponse{}, err
	}

	s.invalidateSummaries(ctx, actor.CompanyID, actor.EmployeeID, row.WorkDate.Year())

	log.Info("timesheet transition success",
		zap.String("request_id", rid),
		zap.String("timesheet_id", row.ID.String()),
		zap.String("status", row.Status),
	)

	resp := mapToResponse(*row, now)
	resp.Warnings = warnings
	return resp, nil
}

var eventTypes = map[workday.Action]string{
	workday.ActionStart:  events.TimesheetStarted,
	workday.ActionPause:  events.TimesheetPaused,
	workday.ActionResume: events.TimesheetResumed,
	workday.ActionEnd:    events.TimesheetEnded,
	workday.ActionSign:   events.TimesheetSigned,
}

func transitionEvent(action workday.Action, rid string, actor Actor, row Timesheet, e workday.Entry, now time.Time) events.TimesheetTransitionedEvent {
	ev := events.TimesheetTransitionedEvent{
		EventType:    eventTypes[action],
		RequestID:    rid,
		TimesheetID:  row.ID.String(),
		CompanyID:    actor.CompanyID,
		EmployeeID:   row.EmployeeID.String(),
		EmployeeName: row.EmployeeName,
		Status:       string(e.Status),
		WorkDate:     e.Date,
		OccurredAt:   now,
	}
	if action == workday.ActionPause {
		if p := e.OpenPause(); p != nil {
			ev.Reason = p.Reason
		}
	}
	return ev
}

func (s *service) invalidateSummaries(ctx context.Context, companyID, employeeID string, year int) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetMonthlySummaryKey(companyID, employeeID, year)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate monthly summary cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func (s *service) GetByID(ctx context.Context, companyID, actorID, id string, canReadAll bool) (TimesheetResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TimesheetResponse{}, timesheeterrors.ErrInvalidTimesheetID
	}
	row, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return TimesheetResponse{}, mapRepositoryError(err)
	}
	// Other employees' rows are reported as missing rather than forbidden.
	if !canReadAll && row.EmployeeID.String() != actorID {
		return TimesheetResponse{}, timesheeterrors.ErrTimesheetNotFound
	}
	return mapToResponse(*row, s.now()), nil
}

func (s *service) GetAll(ctx context.Context, companyID, actorID string, canReadAll bool, filter ListFilter) ([]TimesheetResponse, error) {
	s.logger.Debug("get all timesheets requested",
		zap.String("company_id", companyID),
		zap.Bool("can_read_all", canReadAll),
	)
	rf, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}
	if !canReadAll {
		if _, err := uuid.Parse(actorID); err != nil {
			return nil, timesheeterrors.ErrInvalidEmployeeID
		}
		rf.EmployeeID = actorID
	}

	rows, err := s.repo.FindAll(ctx, companyID, rf)
	if err != nil {
		s.logger.Error("get all timesheets failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	now := s.now()
	res := make([]TimesheetResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r, now)
	}
	return res, nil
}

func validateActor(actor Actor) error {
	if _, err := uuid.Parse(actor.CompanyID); err != nil {
		return timesheeterrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(actor.EmployeeID); err != nil {
		return timesheeterrors.ErrInvalidEmployeeID
	}
	return nil
}

func parseFilter(f ListFilter) (RepoFilter, error) {
	rf := RepoFilter{}
	if f.EmployeeID != "" {
		if _, err := uuid.Parse(f.EmployeeID); err != nil {
			return rf, timesheeterrors.ErrInvalidEmployeeID
		}
		rf.EmployeeID = f.EmployeeID
	}
	for _, d := range []struct {
		raw string
		dst **time.Time
	}{{f.From, &rf.From}, {f.To, &rf.To}} {
		if d.raw == "" {
			continue
		}
		t, err := time.Parse(workday.DateLayout, d.raw)
		if err != nil {
			return rf, timesheeterrors.ErrInvalidDate
		}
		*d.dst = &t
	}
	if rf.From != nil && rf.To != nil && rf.From.After(*rf.To) {
		return rf, timesheeterrors.ErrInvalidDateRange
	}
	if f.Status != "" {
		if !workday.Status(f.Status).Valid() {
			return rf, timesheeterrors.ErrInvalidStatus
		}
		rf.Status = f.Status
	}
	return rf, nil
}

func newTimesheet(actor Actor, date time.Time) *Timesheet {
	return &Timesheet{
		ID:           uuid.New(),
		CompanyID:    uuid.MustParse(actor.CompanyID),
		EmployeeID:   uuid.MustParse(actor.EmployeeID),
		EmployeeName: actor.EmployeeName,
		WorkDate:     date,
		Status:       string(workday.StatusNotStarted),
		Pauses:       []TimesheetPause{},
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func mapToResponse(t Timesheet, now time.Time) TimesheetResponse {
	e := t.toEntry()
	elapsed := workday.Elapsed(e, now)

	resp := TimesheetResponse{
		ID:                t.ID.String(),
		CompanyID:         t.CompanyID.String(),
		EmployeeID:        e.EmployeeID,
		EmployeeName:      e.EmployeeName,
		Date:              e.Date,
		Status:            string(e.Status),
		StartTime:         formatTime(e.StartTime),
		EndTime:           formatTime(e.EndTime),
		Pauses:            make([]PauseResponse, 0, len(e.Pauses)),
		PauseTime:         make([]string, 0, len(e.Pauses)),
		ResumeTime:        make([]string, 0, len(e.Pauses)),
		Signature:         e.Signature,
		SignedAt:          formatTime(t.SignedAt),
		Location:          LocationResponse{StartLocation: e.Location.Start, EndLocation: e.Location.End},
		Elapsed:           workday.FormatClock(elapsed),
		ElapsedSeconds:    int64(elapsed / time.Second),
		PausedTotal:       workday.FormatClock(workday.PausedTotal(e, now)),
		AwaitingSignature: e.AwaitingSignature(),
	}
	for _, p := range e.Pauses {
		start := p.StartTime
		resp.Pauses = append(resp.Pauses, PauseResponse{
			StartTime:      *formatTime(&start),
			EndTime:        formatTime(p.EndTime),
			Reason:         p.Reason,
			Location:       p.Location,
			ResumeLocation: p.ResumeLocation,
		})
	}
	for _, pt := range e.PauseTimes() {
		resp.PauseTime = append(resp.PauseTime, pt.UTC().Format(time.RFC3339))
	}
	for _, rt := range e.ResumeTimes() {
		resp.ResumeTime = append(resp.ResumeTime, rt.UTC().Format(time.RFC3339))
	}
	if worked, ok := workday.Worked(e); ok {
		clock := workday.FormatClock(worked)
		secs := int64(worked / time.Second)
		resp.Worked = &clock
		resp.WorkedSeconds = &secs
	}
	return resp
}
