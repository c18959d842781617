package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Runner executes the backup pipeline: validate source, ensure destination,
// compress into a scratch directory, move into the destination, prune old
// archives. The clock, scratch directory and logger are injectable so tests
// can run against a fixed clock and a private temp root.
type Runner struct {
	logger  *zap.Logger
	now     func() time.Time
	tempDir string
	exec    Executor
}

type Option func(r *Runner) error

// WithLogger returns an Option which set the logger for Runner.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) error {
		r.logger = logger
		return nil
	}
}

// WithClock returns an Option which set the clock used for archive naming.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) error {
		r.now = now
		return nil
	}
}

// WithTempDir returns an Option which set the scratch directory where
// archives are built before being moved to the destination.
func WithTempDir(dir string) Option {
	return func(r *Runner) error {
		r.tempDir = dir
		return nil
	}
}

// WithExecutor returns an Option which set the filesystem executor, replacing
// the perform-or-log selection made per request. Used by tests to substitute
// a recording executor.
func WithExecutor(exec Executor) Option {
	return func(r *Runner) error {
		r.exec = exec
		return nil
	}
}

// New creates new runner instance.
func New(opts ...Option) (*Runner, error) {
	r := &Runner{
		now:     time.Now,
		tempDir: os.TempDir(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.logger == nil {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		r.logger = l
	}

	return r, nil
}

func (r *Runner) executor(req Request) Executor {
	if r.exec != nil {
		return r.exec
	}
	if req.DryRun {
		return dryExecutor{logger: r.logger}
	}
	return osExecutor{}
}

// Run executes one backup. Steps run strictly in order and each one is gated
// on the success of the one before it; only retention pruning is best effort.
func (r *Runner) Run(req Request) Result {
	exec := r.executor(req)

	// validate source.
	info, err := os.Stat(req.Source)
	if err != nil || !info.IsDir() {
		runErr := fmt.Errorf("%w: %s", ErrSourceNotFound, req.Source)
		r.logger.Error("source directory missing", zap.String("source", req.Source))
		return Result{Err: runErr}
	}
	r.logger.Info("source validated", zap.String("source", req.Source))

	// ensure destination.
	if _, err := os.Stat(req.Destination); os.IsNotExist(err) {
		if err := exec.MkdirAll(req.Destination); err != nil {
			runErr := fmt.Errorf("%w: %s: %v", ErrDestinationCreate, req.Destination, err)
			r.logger.Error("failed to create destination directory", zap.String("destination", req.Destination), zap.Error(err))
			return Result{Err: runErr}
		}
	}

	// compress into the scratch directory.
	name := ArchiveName(req.Name, r.now())
	tmpPath := filepath.Join(r.tempDir, name)
	written, err := exec.WriteArchive(req.Source, tmpPath)
	if err != nil {
		runErr := fmt.Errorf("%w: %s: %v", ErrCompression, req.Source, err)
		r.logger.Error("failed to compress source directory", zap.String("source", req.Source), zap.Error(err))
		return Result{Err: runErr}
	}

	// move into the destination, overwriting a same-named archive.
	finalPath := filepath.Join(req.Destination, name)
	if err := exec.Move(tmpPath, finalPath); err != nil {
		// the temporary archive must not be left dangling.
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			r.logger.Error("failed to clean up temporary archive", zap.String("path", tmpPath), zap.Error(rmErr))
		}
		runErr := fmt.Errorf("%w: %s: %v", ErrMove, finalPath, err)
		r.logger.Error("failed to move archive to destination", zap.String("archive", finalPath), zap.Error(err))
		return Result{Err: runErr}
	}
	if !req.DryRun {
		r.logger.Info("archive created",
			zap.String("archive", finalPath),
			zap.String("size", humanize.Bytes(uint64(written))))
	}

	// retention pruning never fails the run.
	var removed []string
	if req.Keep > 0 {
		removed = r.prune(req, exec)
	}

	res := Result{Success: true, Removed: removed}
	if !req.DryRun {
		res.ArchivePath = finalPath
	}
	return res
}

// Prune applies the retention policy on its own, without writing a new
// archive. It reports the archives that were removed, or in dry-run mode the
// ones that would have been.
func (r *Runner) Prune(req Request) []string {
	if req.Keep <= 0 {
		r.logger.Info("retention disabled, nothing to prune")
		return nil
	}
	return r.prune(req, r.executor(req))
}
