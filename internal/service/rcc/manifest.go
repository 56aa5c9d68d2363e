package rcc

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

var (
	errNoResourceFiles   = errors.New("resource manifest lists no files")
	errResourcePathEmpty = errors.New("resource path must be provided")
	errDuplicateResource = errors.New("duplicate resource registry key")
)

// ResourceManifest declares the resource collection embedded into the
// generated registry module, in the style of a Qt resource collection:
// a registry prefix plus file entries with optional aliases.
type ResourceManifest struct {
	// Prefix is prepended to every registry key, defaults to "/".
	Prefix string `yaml:"prefix"`
	// Files lists the resource files, relative to the manifest location.
	Files []ResourceEntry `yaml:"files"`
}

// ResourceEntry is one file of the resource collection.
type ResourceEntry struct {
	// Path locates the file relative to the manifest directory.
	Path string `yaml:"path"`
	// Alias overrides the registry name, defaults to the file's base name.
	Alias string `yaml:"alias"`
}

// resource is a fully resolved collection entry ready for embedding.
type resource struct {
	// Key is the registry path the consumer looks the payload up by.
	Key string
	// Payload is the zstd-compressed file content.
	Payload []byte
}

// loadResourceManifest parses the manifest and reads and compresses every
// listed file. Entries are returned sorted by registry key so the generated
// module does not depend on manifest ordering.
func loadResourceManifest(manifestPath string) ([]resource, error) {
	contents, err := os.ReadFile(filepath.Clean(manifestPath))
	if err != nil {
		return nil, fmt.Errorf("read resource manifest: %w", err)
	}

	var manifest ResourceManifest
	if err := yaml.Unmarshal(contents, &manifest); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", manifestPath, err)
	}

	if len(manifest.Files) == 0 {
		return nil, fmt.Errorf("%s: %w", manifestPath, errNoResourceFiles)
	}

	prefix := manifest.Prefix
	if prefix == "" {
		prefix = "/"
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, fmt.Errorf("create compressor: %w", err)
	}

	defer func() {
		_ = encoder.Close()
	}()

	baseDir := filepath.Dir(manifestPath)
	seen := make(map[string]struct{}, len(manifest.Files))
	resources := make([]resource, 0, len(manifest.Files))

	for _, entry := range manifest.Files {
		if entry.Path == "" {
			return nil, fmt.Errorf("%s: %w", manifestPath, errResourcePathEmpty)
		}

		alias := entry.Alias
		if alias == "" {
			alias = filepath.Base(entry.Path)
		}

		key := path.Join("/", prefix, alias)
		if _, duplicate := seen[key]; duplicate {
			return nil, fmt.Errorf("%s: %w", key, errDuplicateResource)
		}

		seen[key] = struct{}{}

		data, err := os.ReadFile(filepath.Clean(filepath.Join(baseDir, entry.Path)))
		if err != nil {
			return nil, fmt.Errorf("read resource %s: %w", entry.Path, err)
		}

		resources = append(resources, resource{
			Key:     key,
			Payload: encoder.EncodeAll(data, nil),
		})
	}

	sort.Slice(resources, func(i, j int) bool {
		return resources[i].Key < resources[j].Key
	})

	return resources, nil
}
