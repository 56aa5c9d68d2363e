package packager

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// stagedFileMode is applied to staged copies so the archive input does not
// depend on build-machine permissions.
const stagedFileMode os.FileMode = 0o755

// recreateDir destroys and recreates a directory, guaranteeing no leftover
// files from a prior run contaminate the archive.
func recreateDir(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}

	if err := os.MkdirAll(path, stagedFileMode); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	return nil
}

// copyTree copies the directory tree rooted at source into destination.
func copyTree(source, destination string) error {
	return filepath.WalkDir(source, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relPath, err := filepath.Rel(source, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}

		target := filepath.Join(destination, relPath)

		if d.IsDir() {
			if err = os.MkdirAll(target, stagedFileMode); err != nil {
				return fmt.Errorf("create %s: %w", target, err)
			}

			return nil
		}

		return copyFile(path, target)
	})
}

// copyFile copies a single file, creating parent directories as needed.
func copyFile(source, destination string) (err error) {
	if err = os.MkdirAll(filepath.Dir(destination), stagedFileMode); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(destination), err)
	}

	input, err := os.Open(filepath.Clean(source))
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}

	defer func() {
		_ = input.Close()
	}()

	output, err := os.OpenFile(filepath.Clean(destination), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, stagedFileMode)
	if err != nil {
		return fmt.Errorf("create %s: %w", destination, err)
	}

	defer func() {
		if closeErr := output.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err = io.Copy(output, input); err != nil {
		return fmt.Errorf("copy %s: %w", source, err)
	}

	return nil
}
