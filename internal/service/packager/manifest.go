package packager

import (
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	// Ensure SHA512 available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// DefaultChecksumFunction is used to calculate release file hashes.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512

	// manifestFileMode is used when writing the checksum manifest.
	manifestFileMode os.FileMode = 0o644

	// defaultMapCapacity is the default initial capacity for maps.
	defaultMapCapacity = 16
)

var errHashUnavailable = errors.New("hash function unavailable")

// Release contains metadata about a packaged release.
type Release struct {
	// VersionNumber is the semantic version reported by the application binary.
	VersionNumber string `yaml:"version"`
	// Files maps archive-relative file names to their base64-encoded checksums.
	Files map[string]string `yaml:"files"`
}

// NewRelease produces a Release for the given version.
func NewRelease(version string) *Release {
	return &Release{
		VersionNumber: version,
		Files:         make(map[string]string, defaultMapCapacity),
	}
}

// AddTree walks the staged directory and records a checksum for every file,
// keyed by its path relative to the staging root (the same path the file has
// inside the archive).
func (r *Release) AddTree(stagingRoot string) error {
	return filepath.WalkDir(stagingRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(stagingRoot, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}

		checksum, err := GetFileChecksum(path)
		if err != nil {
			return err
		}

		r.Files[filepath.ToSlash(relPath)] = base64.StdEncoding.EncodeToString(checksum)

		return nil
	})
}

// AddFile records a checksum for a single file under the given key.
func (r *Release) AddFile(path, key string) error {
	checksum, err := GetFileChecksum(path)
	if err != nil {
		return err
	}

	r.Files[key] = base64.StdEncoding.EncodeToString(checksum)

	return nil
}

// Save writes the release manifest to the provided path.
func (r *Release) Save(path string) error {
	contents, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal release manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), contents, manifestFileMode); err != nil {
		return fmt.Errorf("write release manifest: %w", err)
	}

	return nil
}

// GetFileChecksum returns checksum bytes for a file using DefaultChecksumFunction.
func GetFileChecksum(path string) ([]byte, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	if !DefaultChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := DefaultChecksumFunction.New()
	if _, err = hasher.Write(contents); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}
