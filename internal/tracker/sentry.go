package tracker

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"PatternScout/pkg/errors"
)

// Sentry implements errors.Tracker on top of a Sentry hub.
type Sentry struct {
	hub *sentry.Hub
}

var _ errors.Tracker = (*Sentry)(nil)

// NewSentry initialises the global Sentry client.
func NewSentry(dsn, environment string) (*Sentry, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		return nil, errors.Wrap(err, "sentry init")
	}
	return &Sentry{hub: sentry.CurrentHub()}, nil
}

func (s *Sentry) CaptureError(ctx context.Context, err error, tags map[string]string) error {
	hub := s.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
	})
	hub.CaptureException(err)
	return nil
}

func (s *Sentry) CaptureMessage(ctx context.Context, message string, level errors.Level, tags map[string]string) error {
	hub := s.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		scope.SetLevel(sentryLevel(level))
	})
	hub.CaptureMessage(message)
	return nil
}

// Flush waits up to two seconds, or until ctx is done, for pending events.
func (s *Sentry) Flush(ctx context.Context) error {
	timeout := 2 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}
	if !s.hub.Flush(timeout) {
		return errors.New("sentry flush timed out")
	}
	return nil
}

func sentryLevel(level errors.Level) sentry.Level {
	switch level {
	case errors.LevelDebug:
		return sentry.LevelDebug
	case errors.LevelWarning:
		return sentry.LevelWarning
	case errors.LevelError:
		return sentry.LevelError
	case errors.LevelFatal:
		return sentry.LevelFatal
	default:
		return sentry.LevelInfo
	}
}
