package backup

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
)

// compressDir writes a zip archive of everything under src to w. Entries are
// stored with slash-separated paths relative to src so extraction does not
// depend on where the source tree lived.
func compressDir(src string, w io.Writer) error {
	zw := zip.NewWriter(w)

	walker := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		fi, err := os.Open(path)
		if err != nil {
			return err
		}
		defer fi.Close()

		fw, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if _, err := io.Copy(fw, fi); err != nil {
			return err
		}

		return nil
	}

	// walk through every file in the folder and add to zip writer.
	if err := filepath.Walk(src, walker); err != nil {
		zw.Close()
		return err
	}

	return zw.Close()
}
