package geolocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

// Provider returns the current position of the device.
type Provider interface {
	CurrentPosition(ctx context.Context) (Location, error)
}

type ProviderFunc func(ctx context.Context) (Location, error)

func (f ProviderFunc) CurrentPosition(ctx context.Context) (Location, error) {
	return f(ctx)
}

// Static serves a fixed position, for example one sent in a request body or
// configured for a CLI. A nil location is reported as unavailable.
func Static(loc *Location) Provider {
	return ProviderFunc(func(context.Context) (Location, error) {
		if loc == nil {
			return Location{}, ErrUnavailable
		}
		return *loc, nil
	})
}

type result struct {
	loc Location
	err error
}

// Capture asks p for a position bounded by timeout. It never fails the
// caller's workflow: on any failure it logs a warning and returns a nil
// location together with the reason, which callers surface as a warning.
func Capture(ctx context.Context, p Provider, timeout time.Duration, logger *zap.Logger) (*Location, error) {
	if logger == nil {
		logger = zap.L()
	}
	if p == nil {
		return nil, ErrUnavailable
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so a provider that ignores ctx can still finish and exit.
	done := make(chan result, 1)
	go func() {
		loc, err := p.CurrentPosition(ctx)
		done <- result{loc: loc, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ErrTimeout
	}

	if res.err == nil {
		res.err = res.loc.Validate()
	}
	if res.err != nil {
		if errors.Is(res.err, context.DeadlineExceeded) {
			res.err = ErrTimeout
		}
		logger.Warn("location capture failed, continuing without location",
			zap.Duration("timeout", timeout),
			zap.Error(res.err),
		)
		return nil, res.err
	}

	if res.loc.CapturedAt.IsZero() {
		res.loc.CapturedAt = time.Now().UTC()
	}
	return &res.loc, nil
}

// Warning renders a capture failure as a short user-facing message.
func Warning(action string, err error) string {
	return fmt.Sprintf("%s recorded without location: %v", action, err)
}
