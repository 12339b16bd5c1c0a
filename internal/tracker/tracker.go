// Package tracker drives one employee's workday from a client. Every action
// is checked against the local entry first, sent to the Store, and committed
// locally only once the Store returns the canonical entry.
package tracker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go-timesheet/internal/geolocation"
	"go-timesheet/internal/workday"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrBusy is returned when an action is requested while another is in flight.
var ErrBusy = errors.New("tracker: another action is in progress")

// Command is one user action sent to the Store. OperationID is unique per
// user action so a retried request can be recognised.
type Command struct {
	OperationID string
	Action      workday.Action
	EntryID     string
	Reason      string
	Location    *geolocation.Location
	Signature   string
}

// Store is the remote record of the workday.
//
//go:generate mockgen -source=tracker.go -destination=mock/tracker_store_mock.go -package=mock
type Store interface {
	Today(ctx context.Context) (workday.Entry, error)
	Apply(ctx context.Context, cmd Command) (workday.Entry, error)
}

// Mirror keeps a local copy of the last committed entry.
type Mirror interface {
	SaveEntry(e workday.Entry) error
}

type Options struct {
	Provider   geolocation.Provider
	GeoTimeout time.Duration
	Clock      workday.Clock
	Ticker     *workday.Ticker
	Notifier   Notifier
	Mirror     Mirror
	// NewOperationID defaults to uuid.NewString.
	NewOperationID func() string
	Logger         *zap.Logger
}

type Tracker struct {
	store      Store
	provider   geolocation.Provider
	geoTimeout time.Duration
	clock      workday.Clock
	ticker     *workday.Ticker
	notifier   Notifier
	mirror     Mirror
	newID      func() string
	logger     *zap.Logger

	busy atomic.Bool

	mu     sync.RWMutex
	entry  workday.Entry
	loaded bool
}

func New(store Store, opts Options) *Tracker {
	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("tracker")

	t := &Tracker{
		store:      store,
		provider:   opts.Provider,
		geoTimeout: opts.GeoTimeout,
		clock:      opts.Clock,
		ticker:     opts.Ticker,
		notifier:   opts.Notifier,
		mirror:     opts.Mirror,
		newID:      opts.NewOperationID,
		logger:     logger,
	}
	if t.clock == nil {
		t.clock = workday.SystemClock
	}
	if t.notifier == nil {
		t.notifier = NewLogNotifier(logger)
	}
	if t.newID == nil {
		t.newID = uuid.NewString
	}
	return t
}

// Entry returns a copy of the last committed entry.
func (t *Tracker) Entry() workday.Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entry.Clone()
}

// AwaitingSignature reports whether the day has ended and still needs a
// signature.
func (t *Tracker) AwaitingSignature() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entry.AwaitingSignature()
}

// Load fetches today's entry and makes it the local state.
func (t *Tracker) Load(ctx context.Context) (workday.Entry, error) {
	if !t.busy.CompareAndSwap(false, true) {
		return workday.Entry{}, ErrBusy
	}
	defer t.busy.Store(false)

	return t.load(ctx)
}

func (t *Tracker) load(ctx context.Context) (workday.Entry, error) {
	e, err := t.store.Today(ctx)
	if err != nil {
		t.logger.Error("load today failed", zap.Error(err))
		t.notifier.Error("Could not load today's timesheet: " + errorMessage(err))
		return workday.Entry{}, err
	}
	t.commit(e)
	return e.Clone(), nil
}

func (t *Tracker) Start(ctx context.Context) (workday.Entry, error) {
	return t.do(ctx, Command{Action: workday.ActionStart})
}

func (t *Tracker) Pause(ctx context.Context, reason string) (workday.Entry, error) {
	return t.do(ctx, Command{Action: workday.ActionPause, Reason: strings.TrimSpace(reason)})
}

func (t *Tracker) Resume(ctx context.Context) (workday.Entry, error) {
	return t.do(ctx, Command{Action: workday.ActionResume})
}

// End finishes the day and opens the signature step.
func (t *Tracker) End(ctx context.Context) (workday.Entry, error) {
	return t.do(ctx, Command{Action: workday.ActionEnd})
}

func (t *Tracker) AttachSignature(ctx context.Context, signature string) (workday.Entry, error) {
	return t.do(ctx, Command{Action: workday.ActionSign, Signature: signature})
}

// Close stops the ticker.
func (t *Tracker) Close() {
	if t.ticker != nil {
		t.ticker.Stop()
	}
}

func (t *Tracker) do(ctx context.Context, cmd Command) (workday.Entry, error) {
	if !t.busy.CompareAndSwap(false, true) {
		t.notifier.Warning("Please wait for the current action to finish")
		return workday.Entry{}, ErrBusy
	}
	defer t.busy.Store(false)

	log := t.logger.With(zap.String("action", string(cmd.Action)))

	t.mu.RLock()
	loaded := t.loaded
	t.mu.RUnlock()
	if !loaded {
		if _, err := t.load(ctx); err != nil {
			return workday.Entry{}, err
		}
	}

	current := t.Entry()
	if err := check(current, cmd, t.clock.Now()); err != nil {
		log.Warn("action rejected locally", zap.String("status", string(current.Status)), zap.Error(err))
		t.notifier.Error(errorMessage(err))
		return workday.Entry{}, err
	}

	if cmd.Action.CapturesLocation() {
		loc, warn := geolocation.Capture(ctx, t.provider, t.geoTimeout, log)
		if warn != nil {
			t.notifier.Warning(geolocation.Warning(string(cmd.Action), warn))
		}
		cmd.Location = loc
	}

	cmd.OperationID = t.newID()
	cmd.EntryID = current.ID

	log.Debug("applying action", zap.String("operation_id", cmd.OperationID))
	canonical, err := t.store.Apply(ctx, cmd)
	if err != nil {
		log.Error("apply action failed", zap.String("operation_id", cmd.OperationID), zap.Error(err))
		t.notifier.Error(errorMessage(err))
		return workday.Entry{}, err
	}

	t.commit(canonical)
	log.Info("action applied", zap.String("status", string(canonical.Status)))
	t.notifier.Success(successMessage(cmd.Action))
	return canonical.Clone(), nil
}

func (t *Tracker) commit(e workday.Entry) {
	t.mu.Lock()
	t.entry = e.Clone()
	t.loaded = true
	t.mu.Unlock()

	if t.mirror != nil {
		if err := t.mirror.SaveEntry(e); err != nil {
			t.logger.Warn("mirror entry failed", zap.String("date", e.Date), zap.Error(err))
		}
	}
	if t.ticker != nil {
		t.ticker.Sync(e)
	}
}

// check applies cmd to a copy of e so invalid actions fail before any
// network call.
func check(e workday.Entry, cmd Command, now time.Time) error {
	probe := e.Clone()
	switch cmd.Action {
	case workday.ActionStart:
		return probe.Start(now, nil)
	case workday.ActionPause:
		return probe.Pause(now, cmd.Reason, nil)
	case workday.ActionResume:
		return probe.Resume(now, nil)
	case workday.ActionEnd:
		return probe.End(now, nil)
	case workday.ActionSign:
		return probe.AttachSignature(cmd.Signature)
	}
	return &workday.TransitionError{Action: cmd.Action, From: e.Status}
}
