package backup

import (
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// ListArchives returns the archives in dir matching the naming pattern for
// name, newest first. The sort is stable over the directory listing, which
// os.ReadDir returns ordered by filename, so archives sharing a modification
// time keep the same relative order across repeated runs.
func ListArchives(dir, name string) ([]Archive, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	pattern := Pattern(name)
	var archives []Archive
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		if ok, err := filepath.Match(pattern, ent.Name()); err != nil || !ok {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			continue
		}
		archives = append(archives, Archive{
			Path:    filepath.Join(dir, ent.Name()),
			Name:    ent.Name(),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.SliceStable(archives, func(i, j int) bool {
		return archives[i].ModTime.After(archives[j].ModTime)
	})
	return archives, nil
}

// prune keeps the req.Keep newest matching archives in the destination and
// deletes the rest. Deletions are best effort: a failed delete is logged and
// the loop continues with the remaining candidates.
func (r *Runner) prune(req Request, exec Executor) []string {
	archives, err := ListArchives(req.Destination, req.Name)
	if err != nil {
		r.logger.Error("cannot list destination for pruning", zap.String("destination", req.Destination), zap.Error(err))
		return nil
	}
	if len(archives) <= req.Keep {
		return nil
	}

	var removed []string
	for _, a := range archives[req.Keep:] {
		if err := exec.Remove(a.Path); err != nil {
			r.logger.Error(ErrRetentionDelete.Error(), zap.String("path", a.Path), zap.Error(err))
			continue
		}
		removed = append(removed, a.Path)
	}
	if len(removed) != 0 {
		r.logger.Info("retention pruning done", zap.Int("keep", req.Keep), zap.Int("removed", len(removed)))
	}
	return removed
}
