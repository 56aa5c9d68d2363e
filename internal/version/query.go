package version

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

var (
	errInvalidVersionOutput = errors.New("invalid version output format")
	errEmptyVersion         = errors.New("reported version is empty")
)

// queryTimeout bounds the execution of the application's version subcommand.
const queryTimeout = 10 * time.Second

// Query executes the application binary at the given path with the `version`
// subcommand and returns the semantic version it reports. The binary is the
// single source of truth for the release version: a missing binary, a failing
// invocation, or unparsable output is a hard error, never a fallback.
func Query(ctx context.Context, binaryPath string) (string, error) {
	if _, err := os.Stat(binaryPath); err != nil {
		return "", fmt.Errorf("application binary: %w", err)
	}

	cmdCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, binaryPath, "version")

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("query version from %s: %w", binaryPath, err)
	}

	return ParseOutput(string(output))
}

// ParseOutput extracts the semantic version from a `version` subcommand output.
// Expected shape: "version: 1.4.0, commit: abc123, built at: ...".
func ParseOutput(output string) (string, error) {
	output = strings.TrimSpace(output)
	if !strings.HasPrefix(output, "version: ") {
		return "", errInvalidVersionOutput
	}

	head, _, _ := strings.Cut(output, ",")

	v := strings.TrimSpace(strings.TrimPrefix(head, "version: "))
	if v == "" {
		return "", errEmptyVersion
	}

	return v, nil
}
