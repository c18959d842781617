package backup

import (
	"errors"
	"time"
)

// timeLayout is the timestamp part of archive names. Together with the glob
// produced by Pattern it forms the on-disk naming contract: changing either
// orphans previously written archives from retention.
const timeLayout = "20060102_150405"

var (
	// ErrSourceNotFound is returned when the source path does not exist or
	// is not a directory.
	ErrSourceNotFound = errors.New("source directory not found")
	// ErrDestinationCreate is returned when the destination directory
	// cannot be created.
	ErrDestinationCreate = errors.New("cannot create destination directory")
	// ErrCompression is returned when writing the archive fails.
	ErrCompression = errors.New("compression failed")
	// ErrMove is returned when the finished archive cannot be moved into
	// the destination directory.
	ErrMove = errors.New("cannot move archive to destination")
	// ErrRetentionDelete marks a failed deletion of an old archive. It is
	// logged per file and never fails a run.
	ErrRetentionDelete = errors.New("cannot delete old archive")
)

// Request describes a single backup run. It is built once from flags and
// config and never mutated afterwards.
type Request struct {
	// Source is the directory to back up.
	Source string
	// Destination is the directory receiving finished archives.
	Destination string
	// Keep is the retention count; 0 disables pruning.
	Keep int
	// DryRun logs every intended mutation instead of performing it.
	DryRun bool
	// Name prefixes archive files and scopes retention matching.
	Name string
}

// Archive is one backup file discovered in the destination directory.
type Archive struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
}

// Result reports the outcome of a run. Removed lists the archives deleted by
// retention or, in dry-run mode, those that would have been. ArchivePath is
// empty in dry-run mode since no archive is written.
type Result struct {
	Success     bool
	ArchivePath string
	Removed     []string
	Err         error
}

// ArchiveName builds the timestamped file name for an archive written at t.
func ArchiveName(name string, t time.Time) string {
	return name + "_" + t.Format(timeLayout) + ".zip"
}

// Pattern returns the glob matching every archive written under name.
func Pattern(name string) string {
	return name + "_*.zip"
}
