package backup

// recordingExecutor notes every requested action and performs none of them.
// Individual actions can be rigged to fail.
type recordingExecutor struct {
	mkdirs  []string
	writes  [][2]string
	moves   [][2]string
	removes []string

	writeErr   error
	moveErr    error
	removeErrs map[string]error
}

func (e *recordingExecutor) MkdirAll(path string) error {
	e.mkdirs = append(e.mkdirs, path)
	return nil
}

func (e *recordingExecutor) WriteArchive(src, path string) (int64, error) {
	if e.writeErr != nil {
		return 0, e.writeErr
	}
	e.writes = append(e.writes, [2]string{src, path})
	return 0, nil
}

func (e *recordingExecutor) Move(src, dst string) error {
	if e.moveErr != nil {
		return e.moveErr
	}
	e.moves = append(e.moves, [2]string{src, dst})
	return nil
}

func (e *recordingExecutor) Remove(path string) error {
	if err := e.removeErrs[path]; err != nil {
		return err
	}
	e.removes = append(e.removes, path)
	return nil
}
