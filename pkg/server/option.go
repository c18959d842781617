package server

import (
	"go.uber.org/zap"

	"github.com/dirkeep/dirkeep/pkg/backup"
)

type Option func(s *Server) error

// WithAddr returns an Option which set the server listening address.
func WithAddr(addr string) Option {
	return func(s *Server) error {
		s.Addr = addr
		return nil
	}
}

// WithRunner returns an Option which set the backup runner for Server.
func WithRunner(r *backup.Runner) Option {
	return func(s *Server) error {
		s.runner = r
		return nil
	}
}

// WithRequest returns an Option which set the backup request executed on
// every trigger, manual or scheduled.
func WithRequest(req backup.Request) Option {
	return func(s *Server) error {
		s.request = req
		return nil
	}
}

// WithSchedule returns an Option which set a cron expression for scheduled
// backup runs. An empty schedule disables the scheduler.
func WithSchedule(schedule string) Option {
	return func(s *Server) error {
		s.schedule = schedule
		return nil
	}
}

// WithLogger returns an Option which set the logger for Server.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}
