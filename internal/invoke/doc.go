// Package invoke runs external reminder binaries as subprocesses.
//
// One command runs at a time and the caller blocks until it exits.
//
// Outcomes:
//   - Exit status 0 → Result, nil error
//   - Non-zero exit → *ExitError carrying the captured Result
//   - Process could not be started (missing, not executable, bad format) → *ExecError
//   - Timeout or context cancellation → *TimeoutError carrying partial output
//
// Timeout handling:
//   - When the timeout expires, SIGTERM is sent to the child's process group
//   - After the grace period, SIGKILL is sent if the child is still running
//   - A zero timeout disables the bound; context cancellation still applies
//
// stdout and stderr are captured in full and returned verbatim. Options.Stdin
// is passed to the child unchanged. When it is a terminal the child stays in
// the caller's process group so it can read from it, and only the child is
// signalled on timeout.
package invoke
