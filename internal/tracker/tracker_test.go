package tracker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-timesheet/internal/geolocation"
	"go-timesheet/internal/tracker"
	trackerMock "go-timesheet/internal/tracker/mock"
	"go-timesheet/internal/workday"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fakeNotifier struct {
	mu       sync.Mutex
	success  []string
	warnings []string
	errors   []string
}

func (n *fakeNotifier) Success(msg string) { n.mu.Lock(); n.success = append(n.success, msg); n.mu.Unlock() }
func (n *fakeNotifier) Warning(msg string) { n.mu.Lock(); n.warnings = append(n.warnings, msg); n.mu.Unlock() }
func (n *fakeNotifier) Error(msg string)   { n.mu.Lock(); n.errors = append(n.errors, msg); n.mu.Unlock() }

type fakeMirror struct {
	saved []workday.Entry
	err   error
}

func (m *fakeMirror) SaveEntry(e workday.Entry) error {
	m.saved = append(m.saved, e)
	return m.err
}

type fixture struct {
	store    *trackerMock.MockStore
	notifier *fakeNotifier
	mirror   *fakeMirror
	ticker   *workday.Ticker
	rendered []string
	tracker  *tracker.Tracker
}

var staticLocation = &geolocation.Location{Latitude: 40.4, Longitude: -3.7, Accuracy: 12, CapturedAt: t0}

func setup(t *testing.T, provider geolocation.Provider) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		store:    trackerMock.NewMockStore(ctrl),
		notifier: &fakeNotifier{},
		mirror:   &fakeMirror{},
	}
	clock := workday.ClockFunc(func() time.Time { return t0 })
	var mu sync.Mutex
	f.ticker = workday.NewTicker(clock, func(c string, _ time.Duration) {
		mu.Lock()
		f.rendered = append(f.rendered, c)
		mu.Unlock()
	}, workday.WithTickSource(func(time.Duration) (<-chan time.Time, func()) {
		return make(chan time.Time), func() {}
	}))
	t.Cleanup(f.ticker.Stop)

	ids := 0
	f.tracker = tracker.New(f.store, tracker.Options{
		Provider:   provider,
		GeoTimeout: 50 * time.Millisecond,
		Clock:      clock,
		Ticker:     f.ticker,
		Notifier:   f.notifier,
		Mirror:     f.mirror,
		NewOperationID: func() string {
			ids++
			return []string{"op-1", "op-2", "op-3", "op-4", "op-5"}[ids-1]
		},
	})
	return f
}

func today() workday.Entry {
	return workday.New("ts-1", "emp-1", "Ana", t0)
}

func active(at time.Time) workday.Entry {
	e := today()
	_ = e.Start(at, staticLocation)
	return e
}

func TestTracker_Load(t *testing.T) {
	f := setup(t, nil)
	f.store.EXPECT().Today(gomock.Any()).Return(active(t0.Add(-time.Hour)), nil)

	e, err := f.tracker.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, workday.StatusActive, e.Status)
	assert.True(t, f.ticker.Running())
	assert.Equal(t, []string{"01:00:00"}, f.rendered)
	require.Len(t, f.mirror.saved, 1)
}

func TestTracker_Start(t *testing.T) {
	f := setup(t, geolocation.Static(staticLocation))
	f.store.EXPECT().Today(gomock.Any()).Return(today(), nil)
	f.store.EXPECT().Apply(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd tracker.Command) (workday.Entry, error) {
			assert.Equal(t, "op-1", cmd.OperationID)
			assert.Equal(t, workday.ActionStart, cmd.Action)
			assert.Equal(t, "ts-1", cmd.EntryID)
			require.NotNil(t, cmd.Location)
			assert.Equal(t, 40.4, cmd.Location.Latitude)
			return active(t0), nil
		})

	e, err := f.tracker.Start(context.Background())

	require.NoError(t, err)
	assert.Equal(t, workday.StatusActive, e.Status)
	assert.Equal(t, workday.StatusActive, f.tracker.Entry().Status)
	assert.True(t, f.ticker.Running())
	assert.Equal(t, []string{"Workday started"}, f.notifier.success)
	assert.Empty(t, f.notifier.warnings)
	assert.Len(t, f.mirror.saved, 2)
}

func TestTracker_StartWithoutLocation(t *testing.T) {
	f := setup(t, geolocation.Static(nil))
	f.store.EXPECT().Today(gomock.Any()).Return(today(), nil)
	f.store.EXPECT().Apply(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd tracker.Command) (workday.Entry, error) {
			assert.Nil(t, cmd.Location)
			return active(t0), nil
		})

	_, err := f.tracker.Start(context.Background())

	require.NoError(t, err)
	require.Len(t, f.notifier.warnings, 1)
	assert.Contains(t, f.notifier.warnings[0], "start")
	assert.Len(t, f.notifier.success, 1)
}

func TestTracker_LocalRejections(t *testing.T) {
	tests := []struct {
		name    string
		entry   workday.Entry
		run     func(*tracker.Tracker) error
		wantErr error
	}{
		{
			name:    "blank pause reason",
			entry:   active(t0.Add(-time.Hour)),
			run:     func(tr *tracker.Tracker) error { _, err := tr.Pause(context.Background(), "   "); return err },
			wantErr: workday.ErrReasonRequired,
		},
		{
			name:    "resume while active",
			entry:   active(t0.Add(-time.Hour)),
			run:     func(tr *tracker.Tracker) error { _, err := tr.Resume(context.Background()); return err },
			wantErr: workday.ErrInvalidTransition,
		},
		{
			name:    "end before start",
			entry:   today(),
			run:     func(tr *tracker.Tracker) error { _, err := tr.End(context.Background()); return err },
			wantErr: workday.ErrInvalidTransition,
		},
		{
			name: "resume a paused entry with no open pause",
			entry: func() workday.Entry {
				e := active(t0.Add(-time.Hour))
				e.Status = workday.StatusPaused
				return e
			}(),
			run:     func(tr *tracker.Tracker) error { _, err := tr.Resume(context.Background()); return err },
			wantErr: workday.ErrInvalidEntry,
		},
		{
			name:    "sign before end",
			entry:   active(t0.Add(-time.Hour)),
			run:     func(tr *tracker.Tracker) error { _, err := tr.AttachSignature(context.Background(), "sig"); return err },
			wantErr: workday.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, nil)
			f.store.EXPECT().Today(gomock.Any()).Return(tt.entry, nil)
			_, err := f.tracker.Load(context.Background())
			require.NoError(t, err)

			err = tt.run(f.tracker)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.entry.Status, f.tracker.Entry().Status)
			assert.Len(t, f.tracker.Entry().Pauses, len(tt.entry.Pauses))
			assert.Len(t, f.notifier.errors, 1)
		})
	}
}

func TestTracker_ApplyFailureKeepsState(t *testing.T) {
	f := setup(t, nil)
	f.store.EXPECT().Today(gomock.Any()).Return(active(t0.Add(-time.Hour)), nil)
	f.store.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(workday.Entry{}, errors.New("connection refused"))

	_, err := f.tracker.Load(context.Background())
	require.NoError(t, err)

	_, err = f.tracker.Pause(context.Background(), "lunch")

	require.Error(t, err)
	assert.Equal(t, workday.StatusActive, f.tracker.Entry().Status)
	assert.Empty(t, f.tracker.Entry().Pauses)
	assert.True(t, f.ticker.Running())
	assert.Equal(t, []string{"connection refused"}, f.notifier.errors)
}

func TestTracker_PauseStopsTicker(t *testing.T) {
	f := setup(t, nil)
	start := active(t0.Add(-time.Hour))
	f.store.EXPECT().Today(gomock.Any()).Return(start, nil)
	f.store.EXPECT().Apply(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd tracker.Command) (workday.Entry, error) {
			assert.Equal(t, "lunch", cmd.Reason)
			e := start.Clone()
			require.NoError(t, e.Pause(t0, cmd.Reason, nil))
			return e, nil
		})

	_, err := f.tracker.Load(context.Background())
	require.NoError(t, err)
	e, err := f.tracker.Pause(context.Background(), "  lunch ")

	require.NoError(t, err)
	assert.Equal(t, workday.StatusPaused, e.Status)
	assert.False(t, f.ticker.Running())
}

func TestTracker_EndAndSign(t *testing.T) {
	f := setup(t, nil)
	start := active(t0.Add(-8 * time.Hour))
	ended := start.Clone()
	require.NoError(t, ended.End(t0, nil))
	signed := ended.Clone()
	require.NoError(t, signed.AttachSignature("data:image/png;base64,AAA"))

	gomock.InOrder(
		f.store.EXPECT().Today(gomock.Any()).Return(start, nil),
		f.store.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(ended, nil),
		f.store.EXPECT().Apply(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, cmd tracker.Command) (workday.Entry, error) {
				assert.Equal(t, workday.ActionSign, cmd.Action)
				assert.Nil(t, cmd.Location)
				assert.Equal(t, "data:image/png;base64,AAA", cmd.Signature)
				return signed, nil
			}),
	)

	_, err := f.tracker.Load(context.Background())
	require.NoError(t, err)

	_, err = f.tracker.End(context.Background())
	require.NoError(t, err)
	assert.True(t, f.tracker.AwaitingSignature())
	assert.False(t, f.ticker.Running())

	e, err := f.tracker.AttachSignature(context.Background(), "data:image/png;base64,AAA")
	require.NoError(t, err)
	assert.False(t, f.tracker.AwaitingSignature())
	require.NotNil(t, e.Signature)
	assert.Equal(t, "08:00:00", f.rendered[len(f.rendered)-1])
}

func TestTracker_Busy(t *testing.T) {
	f := setup(t, nil)
	f.store.EXPECT().Today(gomock.Any()).Return(today(), nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.store.EXPECT().Apply(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, tracker.Command) (workday.Entry, error) {
			close(entered)
			<-release
			return active(t0), nil
		})

	_, err := f.tracker.Load(context.Background())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.tracker.Start(context.Background())
		done <- err
	}()
	<-entered

	_, err = f.tracker.Start(context.Background())
	assert.ErrorIs(t, err, tracker.ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, workday.StatusActive, f.tracker.Entry().Status)
}

func TestTracker_MirrorFailureIsNotFatal(t *testing.T) {
	f := setup(t, nil)
	f.mirror.err = errors.New("disk full")
	f.store.EXPECT().Today(gomock.Any()).Return(today(), nil)

	_, err := f.tracker.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, workday.StatusNotStarted, f.tracker.Entry().Status)
}
