package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/valve"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dirkeep/dirkeep/pkg/backup"
)

// Server defines parameters for running the DirKeep agent HTTP server.
type Server struct {
	Addr        string
	router      *chi.Mux
	runner      *backup.Runner
	request     backup.Request
	schedule    string
	useUnixSock bool

	// signal chan use for testing.
	testSignalCh chan os.Signal

	logger *zap.Logger
}

// New creates new server instance.
func New(opts ...Option) (*Server, error) {
	s := &Server{}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.router = chi.NewRouter()

	if s.logger == nil {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		s.logger = l
	}

	s.setupRoutes()
	s.useUnixSock = strings.HasPrefix(s.Addr, "unix://")
	s.Addr = strings.TrimPrefix(s.Addr, "unix://")

	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Route("/backups", func(r chi.Router) {
		r.Post("/", s.RunBackup)
	})

	s.router.Route("/archives", func(r chi.Router) {
		r.Get("/", s.ListArchives)
	})
}

// RunBackup triggers one backup run immediately.
func (s *Server) RunBackup(w http.ResponseWriter, r *http.Request) {
	res := s.runner.Run(s.request)
	if res.Err != nil {
		s.logger.Error("backup run failed", zap.Error(res.Err))
		http.Error(w, res.Err.Error(), http.StatusInternalServerError)
		return
	}
	resp := struct {
		ArchivePath string   `json:"archive_path"`
		Removed     []string `json:"removed"`
	}{res.ArchivePath, res.Removed}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode backup response", zap.Error(err))
	}
}

// ListArchives reports the archives currently in the destination directory,
// newest first.
func (s *Server) ListArchives(w http.ResponseWriter, r *http.Request) {
	archives, err := backup.ListArchives(s.request.Destination, s.request.Name)
	if err != nil {
		s.logger.Error("failed to list archives", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if archives == nil {
		archives = []backup.Archive{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(archives); err != nil {
		s.logger.Error("failed to encode archive list", zap.Error(err))
	}
}

func (s *Server) Run() error {
	// Graceful valve shut-off package to manage code preemption and shutdown signaling.
	valv := valve.New()
	baseCtx := valv.Context()

	if s.schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(s.schedule, func() {
			s.logger.Info("scheduled backup starting", zap.String("schedule", s.schedule))
			if res := s.runner.Run(s.request); res.Err != nil {
				s.logger.Error("scheduled backup failed", zap.Error(res.Err))
			}
		}); err != nil {
			return err
		}
		c.Start()
		defer c.Stop()
	}

	srv := http.Server{Handler: chi.ServerBaseContext(baseCtx, s.router)}

	c := make(chan os.Signal, 1)
	if s.testSignalCh != nil {
		c = s.testSignalCh
	}
	signal.Notify(c, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-c
		// signal is a ^C, handle it
		s.logger.Info("shutting down...")

		// first valv
		if err := valv.Shutdown(20 * time.Second); err != nil {
			s.logger.Error("failed to shutdown valv")
		}

		// create context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		// start http shutdown
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("failed to shutdown http server")
		}
	}()

	if s.useUnixSock {
		unixListener, err := net.Listen("unix", s.Addr)
		if err != nil {
			return err
		}
		return srv.Serve(unixListener)
	}

	srv.Addr = s.Addr
	return srv.ListenAndServe()
}
