package version

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestQuery runs the version query against a stand-in binary and a missing one.
func TestQuery(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("stand-in binary is a shell script")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "netdiag")

	script := "#!/bin/sh\necho 'version: 1.4.0, commit: none, built at: unknown'\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))

	v, err := Query(context.Background(), bin)
	require.NoError(t, err)
	require.Equal(t, "1.4.0", v)

	_, err = Query(context.Background(), filepath.Join(dir, "missing"))
	require.Error(t, err)
}

// TestQueryEmptyOutput ensures an empty version report is fatal, not a fallback.
func TestQueryEmptyOutput(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("stand-in binary is a shell script")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "netdiag")

	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\necho ''\n"), 0o755))

	_, err := Query(context.Background(), bin)
	require.Error(t, err)
}
