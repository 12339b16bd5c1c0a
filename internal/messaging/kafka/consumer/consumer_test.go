package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-timesheet/internal/bootstrap"
	"go-timesheet/internal/events"
	"go-timesheet/internal/messaging/kafka/consumer"
	"go-timesheet/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBoard struct {
	recorded []events.TimesheetTransitionedEvent
	err      error
}

func (b *fakeBoard) Record(_ context.Context, ev events.TimesheetTransitionedEvent) error {
	if b.err != nil {
		return b.err
	}
	b.recorded = append(b.recorded, ev)
	return nil
}

type fakeAudit struct {
	entries    []bootstrap.AuditLog
	requestIDs []string
}

func (a *fakeAudit) Log(ctx context.Context, entry bootstrap.AuditLog) {
	a.entries = append(a.entries, entry)
	a.requestIDs = append(a.requestIDs, contextutil.GetRequestID(ctx))
}

func message(t *testing.T, ev events.TimesheetTransitionedEvent, headers ...kafkago.Header) kafkago.Message {
	t.Helper()
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafkago.Message{Topic: events.TimesheetLifecycleTopic, Value: raw, Headers: headers}
}

func TestTimesheetLifecycleHandler_Handle(t *testing.T) {
	ctx := context.Background()
	ev := events.TimesheetTransitionedEvent{
		EventType: events.TimesheetPaused, TimesheetID: "ts-1", CompanyID: "c-1",
		EmployeeID: "e-1", EmployeeName: "Ada", Status: "paused", WorkDate: "2024-03-04",
		OccurredAt: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC),
	}

	t.Run("records board and audits with header request id", func(t *testing.T) {
		board, audit := &fakeBoard{}, &fakeAudit{}
		h := consumer.NewTimesheetLifecycleHandler(board, audit, zap.NewNop())

		commit, err := h.Handle(ctx, message(t, ev, kafkago.Header{Key: "request_id", Value: []byte("req-9")}))

		assert.True(t, commit)
		assert.NoError(t, err)
		require.Len(t, board.recorded, 1)
		assert.Equal(t, "req-9", board.recorded[0].RequestID)
		require.Len(t, audit.entries, 1)
		assert.Equal(t, events.TimesheetPaused, audit.entries[0].Action)
		assert.Equal(t, "Ada is paused", audit.entries[0].Message)
		assert.Equal(t, []string{"req-9"}, audit.requestIDs)
	})

	t.Run("undecodable message is committed and skipped", func(t *testing.T) {
		board := &fakeBoard{}
		h := consumer.NewTimesheetLifecycleHandler(board, nil, zap.NewNop())

		commit, err := h.Handle(ctx, kafkago.Message{Value: []byte("{")})

		assert.True(t, commit)
		assert.Error(t, err)
		assert.Empty(t, board.recorded)
	})

	t.Run("board failure leaves message uncommitted", func(t *testing.T) {
		audit := &fakeAudit{}
		h := consumer.NewTimesheetLifecycleHandler(&fakeBoard{err: errors.New("redis down")}, audit, zap.NewNop())

		commit, err := h.Handle(ctx, message(t, ev))

		assert.False(t, commit)
		assert.EqualError(t, err, "redis down")
		assert.Empty(t, audit.entries)
	})
}

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func TestConsumeTimesheetLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	good := message(t, events.TimesheetTransitionedEvent{EventType: events.TimesheetStarted, TimesheetID: "ts-1"})
	reader := &fakeReader{queue: []kafkago.Message{good, {Value: []byte("nope")}}, cancel: cancel}
	board := &fakeBoard{}

	consumer.ConsumeTimesheetLifecycle(ctx, reader, consumer.NewTimesheetLifecycleHandler(board, nil, zap.NewNop()))

	assert.Len(t, board.recorded, 1)
	assert.Len(t, reader.committed, 2)
}
