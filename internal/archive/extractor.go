// Package archive extracts uploaded project archives onto disk.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"codechat/internal/apperrors"
)

// Extract extracts every entry of the zip at src into dest, creating dest if
// absent, then removes the source archive. Entry paths are sanitized so an
// archive cannot write outside dest (zip-slip).
func Extract(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		if r != nil {
			r.Close()
		}
		return apperrors.Extraction("invalid or corrupt zip archive", err)
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		r.Close()
		return apperrors.Filesystem("failed to create extraction directory", err)
	}

	for _, f := range r.File {
		if err := extractEntry(f, dest); err != nil {
			r.Close()
			return err
		}
	}

	// Close before removing: the archive cannot be unlinked while open on
	// every platform.
	r.Close()
	if err := os.Remove(src); err != nil {
		return apperrors.Filesystem("failed to remove source archive", err)
	}

	return nil
}

// extractEntry writes a single archive entry under dest.
func extractEntry(f *zip.File, dest string) error {
	destPath, err := sanitizePath(dest, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(destPath, 0755); err != nil {
			return apperrors.Filesystem("failed to create directory "+f.Name, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return apperrors.Filesystem("failed to create directory for "+f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return apperrors.Extraction("failed to read archive entry "+f.Name, err)
	}
	defer rc.Close()

	outFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return apperrors.Filesystem("failed to create file "+f.Name, err)
	}

	_, err = io.Copy(outFile, rc)
	outFile.Close()
	if err != nil {
		return apperrors.Extraction("failed to extract entry "+f.Name, err)
	}

	return nil
}

// sanitizePath resolves an archive entry name under dest and rejects entries
// that escape it.
func sanitizePath(dest, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", apperrors.Extraction(fmt.Sprintf("archive entry %q escapes extraction directory", name), nil)
	}

	return filepath.Join(dest, cleaned), nil
}
