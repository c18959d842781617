package backup

import (
	"os"

	"go.uber.org/zap"
)

// Executor performs the mutating filesystem actions of a run. The pipeline
// calls the same actions in every mode; the dry-run executor logs each
// intended action instead of performing it.
type Executor interface {
	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error
	// WriteArchive compresses the contents of src into an archive at path,
	// overwriting any existing file, and reports the bytes written.
	WriteArchive(src, path string) (int64, error)
	// Move relocates a finished archive, overwriting any existing file.
	Move(src, dst string) error
	// Remove deletes a single file.
	Remove(path string) error
}

type osExecutor struct{}

func (osExecutor) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func (osExecutor) WriteArchive(src, path string) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	cw := &countingWriter{w: f}
	if err := compressDir(src, cw); err != nil {
		f.Close()
		// a partial archive must not survive a failed compression.
		os.Remove(path)
		return 0, err
	}
	// the archive must be fully written and closed before it becomes
	// visible to anything watching the destination.
	if err := f.Close(); err != nil {
		os.Remove(path)
		return 0, err
	}
	return cw.total, nil
}

func (osExecutor) Move(src, dst string) error {
	return os.Rename(src, dst)
}

func (osExecutor) Remove(path string) error {
	return os.Remove(path)
}

// dryExecutor logs every intended mutation and performs none of them.
type dryExecutor struct {
	logger *zap.Logger
}

func (d dryExecutor) MkdirAll(path string) error {
	d.logger.Info("dry-run: would create directory", zap.String("path", path))
	return nil
}

func (d dryExecutor) WriteArchive(src, path string) (int64, error) {
	d.logger.Info("dry-run: would compress directory", zap.String("source", src), zap.String("archive", path))
	return 0, nil
}

func (d dryExecutor) Move(src, dst string) error {
	d.logger.Info("dry-run: would move archive", zap.String("from", src), zap.String("to", dst))
	return nil
}

func (d dryExecutor) Remove(path string) error {
	d.logger.Info("dry-run: would delete old archive", zap.String("path", path))
	return nil
}
