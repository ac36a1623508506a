package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/walker/pkg/ports"
)

type loggingStore struct {
	next   ports.WorldStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level and failures at warn.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ports.WorldStore) ports.WorldStore {
		return &loggingStore{next: next, logger: logger}
	}
}

func (s *loggingStore) log(op, name string, start time.Time, err error) {
	if err != nil {
		s.logger.Warn("world store call failed", "op", op, "world", name, "err", err)
		return
	}
	s.logger.Debug("world store call", "op", op, "world", name, "took", time.Since(start))
}

func (s *loggingStore) Save(ctx context.Context, name, text string) error {
	start := time.Now()
	err := s.next.Save(ctx, name, text)
	s.log("save", name, start, err)
	return err
}

func (s *loggingStore) Load(ctx context.Context, name string) (string, error) {
	start := time.Now()
	text, err := s.next.Load(ctx, name)
	s.log("load", name, start, err)
	return text, err
}

func (s *loggingStore) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := s.next.Delete(ctx, name)
	s.log("delete", name, start, err)
	return err
}

func (s *loggingStore) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := s.next.List(ctx)
	s.log("list", "", start, err)
	return names, err
}
