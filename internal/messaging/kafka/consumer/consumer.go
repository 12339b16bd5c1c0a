package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-timesheet/internal/bootstrap"
	"go-timesheet/internal/events"
	"go-timesheet/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// BoardRecorder folds a lifecycle event into the live status board.
type BoardRecorder interface {
	Record(ctx context.Context, event events.TimesheetTransitionedEvent) error
}

type TimesheetLifecycleHandler struct {
	board  BoardRecorder
	audit  bootstrap.AuditLogger
	logger *zap.Logger
}

func NewTimesheetLifecycleHandler(board BoardRecorder, audit bootstrap.AuditLogger, logger *zap.Logger) *TimesheetLifecycleHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &TimesheetLifecycleHandler{
		board:  board,
		audit:  audit,
		logger: logger.Named("kafka.consumer.timesheet_lifecycle"),
	}
}

// Handle processes one message. commit is false when the message should be
// redelivered.
func (h *TimesheetLifecycleHandler) Handle(ctx context.Context, msg kafkago.Message) (commit bool, err error) {
	var event events.TimesheetTransitionedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("decode timesheet lifecycle event failed", zap.Error(err))
		return true, err
	}
	if event.RequestID == "" {
		event.RequestID = headerValue(msg, "request_id")
	}
	ctx = contextutil.WithRequestID(ctx, event.RequestID)

	if err := h.board.Record(ctx, event); err != nil {
		h.logger.Error("update timesheet board failed",
			zap.String("timesheet_id", event.TimesheetID),
			zap.String("company_id", event.CompanyID),
			zap.Error(err),
		)
		return false, err
	}

	if h.audit != nil {
		h.audit.Log(ctx, bootstrap.AuditLog{
			Action:  event.EventType,
			Message: fmt.Sprintf("%s is %s", event.EmployeeName, event.Status),
			Meta: map[string]any{
				"timesheet_id": event.TimesheetID,
				"company_id":   event.CompanyID,
				"employee_id":  event.EmployeeID,
				"work_date":    event.WorkDate,
				"occurred_at":  event.OccurredAt,
			},
		})
	}
	return true, nil
}

func ConsumeTimesheetLifecycle(ctx context.Context, reader MessageReader, handler *TimesheetLifecycleHandler) {
	log := handler.logger
	log.Info("timesheet lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("timesheet lifecycle consumer stopped")
				return
			}
			log.Error("fetch timesheet lifecycle message failed", zap.Error(err))
			continue
		}

		commit, err := handler.Handle(ctx, msg)
		if !commit {
			continue
		}
		if cerr := reader.CommitMessages(ctx, msg); cerr != nil {
			log.Error("commit timesheet lifecycle message failed", zap.Error(cerr))
			continue
		}
		if err == nil {
			log.Info("timesheet board updated",
				zap.Int64("offset", msg.Offset),
				zap.String("event_type", headerValue(msg, "event_type")),
			)
		}
	}
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
