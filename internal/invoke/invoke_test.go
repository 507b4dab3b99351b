package invoke

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/remindctl/internal/log"
)

func TestMain(m *testing.M) {
	log.Setup(slog.LevelError, "text", os.Stderr) // Suppress logs in tests
	os.Exit(m.Run())
}

func writeScript(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fakectl")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestRunSuccess(t *testing.T) {
	path := writeScript(t, `#!/bin/sh
printf 'op=%s\n' "$1"
printf 'n=%s\n' "$#"
printf 'warn\n' >&2
`)
	r := New(Options{Timeout: 5 * time.Second})

	res, err := r.Run(context.Background(), []string{path, "create", "L1", "Work List"})
	require.NoError(t, err)
	assert.Equal(t, "op=create\nn=3\n", res.Stdout)
	assert.Equal(t, "warn\n", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
}

func TestRunPreservesArgumentsVerbatim(t *testing.T) {
	path := writeScript(t, `#!/bin/sh
for a in "$@"; do printf '[%s]\n' "$a"; done
`)
	r := New(Options{Timeout: 5 * time.Second})

	res, err := r.Run(context.Background(), []string{path, "add", "Buy milk; rm -rf /", "--list", "$HOME"})
	require.NoError(t, err)
	assert.Equal(t, "[add]\n[Buy milk; rm -rf /]\n[--list]\n[$HOME]\n", res.Stdout)
}

const readLineScript = `#!/bin/sh
read line
echo "got:[$line]"
`

func TestRunForwardsStdin(t *testing.T) {
	path := writeScript(t, readLineScript)
	r := New(Options{Timeout: 5 * time.Second, Stdin: strings.NewReader("yes\n")})

	res, err := r.Run(context.Background(), []string{path, "lists"})
	require.NoError(t, err)
	assert.Equal(t, "got:[yes]\n", res.Stdout)
}

func TestRunForwardsStdinFile(t *testing.T) {
	input := filepath.Join(t.TempDir(), "input")
	require.NoError(t, os.WriteFile(input, []byte("from file\n"), 0644))
	f, err := os.Open(input)
	require.NoError(t, err)
	defer f.Close()

	path := writeScript(t, readLineScript)
	r := New(Options{Timeout: 5 * time.Second, Stdin: f})

	res, err := r.Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, "got:[from file]\n", res.Stdout)
}

func TestRunNilStdinReadsEOF(t *testing.T) {
	path := writeScript(t, readLineScript)
	r := New(Options{Timeout: 5 * time.Second})

	res, err := r.Run(context.Background(), []string{path})
	// read fails on EOF but the script still exits 0 from echo.
	require.NoError(t, err)
	assert.Equal(t, "got:[]\n", res.Stdout)
}

func TestIsTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, isTerminal(nil))
	assert.False(t, isTerminal(strings.NewReader("x")))
	assert.False(t, isTerminal(f))
}

func TestRunNonZeroExit(t *testing.T) {
	path := writeScript(t, `#!/bin/sh
echo "partial output"
echo "list not found" >&2
exit 3
`)
	r := New(Options{Timeout: 5 * time.Second})

	res, err := r.Run(context.Background(), []string{path, "delete", "S1"})
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Result.ExitCode)
	assert.Equal(t, "partial output\n", exitErr.Result.Stdout)
	assert.Equal(t, "list not found\n", exitErr.Result.Stderr)
	assert.Equal(t, "fakectl exited with status 3", err.Error())
	assert.Same(t, res, exitErr.Result)
}

func TestRunNotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fakectl")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho hi\n"), 0644))

	r := New(Options{Timeout: 5 * time.Second})
	res, err := r.Run(context.Background(), []string{path})
	assert.Nil(t, res)

	var execErr *ExecError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, path, execErr.Path)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestRunMissingBinary(t *testing.T) {
	r := New(Options{})
	_, err := r.Run(context.Background(), []string{filepath.Join(t.TempDir(), "missing")})

	var execErr *ExecError
	assert.True(t, errors.As(err, &execErr))
}

func TestRunEmptyArgv(t *testing.T) {
	_, err := New(Options{}).Run(context.Background(), nil)
	var execErr *ExecError
	assert.True(t, errors.As(err, &execErr))
}

func TestRunTimeout(t *testing.T) {
	path := writeScript(t, `#!/bin/sh
echo started
exec sleep 30
`)
	r := New(Options{Timeout: 200 * time.Millisecond, GracePeriod: time.Second})

	start := time.Now()
	res, err := r.Run(context.Background(), []string{path})
	elapsed := time.Since(start)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr), "got %v", err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "fakectl timed out after 200ms", err.Error())
	assert.Equal(t, "started\n", res.Stdout)
	assert.Less(t, elapsed, 10*time.Second)
}

func TestRunTimeoutEscalatesToKill(t *testing.T) {
	path := writeScript(t, `#!/bin/sh
trap '' TERM
echo ignoring
while :; do sleep 1; done
`)
	r := New(Options{Timeout: 200 * time.Millisecond, GracePeriod: 300 * time.Millisecond})

	start := time.Now()
	_, err := r.Run(context.Background(), []string{path})
	elapsed := time.Since(start)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr), "got %v", err)
	assert.GreaterOrEqual(t, elapsed, 500*time.Millisecond)
	assert.Less(t, elapsed, 10*time.Second)
}

func TestRunContextCancelled(t *testing.T) {
	path := writeScript(t, "#!/bin/sh\nexec sleep 30\n")
	r := New(Options{GracePeriod: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	_, err := r.Run(ctx, []string{path})
	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr), "got %v", err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "fakectl interrupted", err.Error())
}

func TestRunZeroTimeoutWaits(t *testing.T) {
	path := writeScript(t, "#!/bin/sh\nsleep 0.3\necho done\n")
	r := New(Options{Timeout: 0})

	res, err := r.Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, "done\n", res.Stdout)
}
