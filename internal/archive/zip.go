package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
)

// normalizedFileMode is applied to every archived file so the archive content
// never depends on the permissions the build machine happened to produce.
const normalizedFileMode fs.FileMode = 0o755

// errNotDirectory is returned when the archive source is not a directory.
var errNotDirectory = errors.New("archive source is not a directory")

// Create compresses sourceDir into a zip archive at path. The archive holds a
// single top-level directory named rootName. Output is deterministic for
// identical input trees: entries are visited in lexical order, timestamps are
// zeroed and modes normalized, and compression is maximum-level deflate.
// An existing archive at path is overwritten.
func Create(path, sourceDir, rootName string) (err error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s: %w", sourceDir, errNotDirectory)
	}

	outputFile, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	// No partial archive is ever published: if anything below fails,
	// including the final flush on close, the truncated file is removed.
	// Registered first so it runs after both closes, when the handle is
	// released and the removal works on Windows too.
	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	defer func() {
		if closeErr := outputFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zw := zip.NewWriter(outputFile)

	// Maximum compression, as the release script demands.
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	walkErr := filepath.WalkDir(sourceDir, func(entryPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relPath, relErr := filepath.Rel(sourceDir, entryPath)
		if relErr != nil {
			return fmt.Errorf("relative path: %w", relErr)
		}

		if relPath == "." {
			return nil
		}

		// Forward slashes inside the archive regardless of host OS.
		entryName := filepath.ToSlash(filepath.Join(rootName, relPath))

		if d.IsDir() {
			return writeDirEntry(zw, entryName)
		}

		return writeFileEntry(zw, entryName, entryPath)
	})
	if walkErr != nil {
		return fmt.Errorf("archive %s: %w", sourceDir, walkErr)
	}

	return nil
}

// writeDirEntry appends a normalized directory entry.
func writeDirEntry(zw *zip.Writer, name string) error {
	//nolint:exhaustruct // Zero Modified keeps the archive reproducible.
	header := &zip.FileHeader{
		Name:   name + "/",
		Method: zip.Store,
	}
	header.SetMode(normalizedFileMode | fs.ModeDir)

	if _, err := zw.CreateHeader(header); err != nil {
		return fmt.Errorf("directory entry %s: %w", name, err)
	}

	return nil
}

// writeFileEntry appends a normalized file entry with its contents.
func writeFileEntry(zw *zip.Writer, name, path string) error {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	//nolint:exhaustruct // Zero Modified keeps the archive reproducible.
	header := &zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	}
	header.SetMode(normalizedFileMode)

	writer, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("file entry %s: %w", name, err)
	}

	if _, err = writer.Write(contents); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}
