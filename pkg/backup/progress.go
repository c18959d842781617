package backup

import "io"

// countingWriter wraps a writer and counts the number of bytes written to it,
// so a finished archive can be reported with its size.
type countingWriter struct {
	w     io.Writer
	total int64
}

// Write implements io.Writer interface.
func (cw *countingWriter) Write(buf []byte) (int, error) {
	n, err := cw.w.Write(buf)
	cw.total += int64(n)
	return n, err
}
