package packager

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/netdiag/netdiag-tools/internal/logger"
)

const (
	// MarkerFilename marks that a packaging run is in flight to avoid parallel execution.
	MarkerFilename = "netdiag-packager-marker.bin"

	// markerLifetime is the period after which a stale packaging marker is ignored.
	markerLifetime = 30 * time.Second
)

// packagerExecutable is the process name a stale-marker recovery looks for.
const packagerExecutable = "netdiag-packager"

// IsPackagerRunningNow checks presence of a marker file and attempts recovery if it looks stale.
func IsPackagerRunningNow(ctx context.Context) bool {
	logger.Info(ctx, "Checking for the presence of a packaging marker")

	fileInfo, err := os.Stat(MarkerFilename)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The packaging marker is too old, attempting cleanup")

		if anotherPackagerAlive() {
			return true
		}

		if err = os.Remove(MarkerFilename); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Packaging marker not found, continuing")
		return false
	}

	logger.Infof(ctx, "Unable to read packaging marker: %v", err)

	return false
}

// anotherPackagerAlive reports whether a different packager process still runs.
func anotherPackagerAlive() bool {
	processList, err := ps.Processes()
	if err != nil {
		// Unknown state, treat the marker as live.
		return true
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		name := process.Executable()
		if name == packagerExecutable || name == packagerExecutable+".exe" {
			return true
		}
	}

	return false
}

// createMarker writes the in-flight marker file.
func createMarker() error {
	marker, err := os.Create(MarkerFilename)
	if err != nil {
		return err
	}

	return marker.Close()
}

// removeMarker deletes the marker, best effort.
func removeMarker() {
	if _, err := os.Stat(MarkerFilename); err == nil {
		_ = os.Remove(MarkerFilename)
	}
}
