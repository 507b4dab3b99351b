// Package dispatch turns a parsed request into one external command run.
//
// The pipeline is strictly ordered:
//
//	lookup descriptor → validate required fields → locate binary
//	→ verify BLAKE3 pin (if configured) → run → return captured result
//
// A failure at any step stops the pipeline; in particular nothing is
// spawned unless validation, location and pin verification all succeed.
//
// Error kinds:
//   - UnknownCommand: subcommand or operation not in the registry
//   - MissingRequiredField: required-field rule violated
//   - ExecutableNotFound: binary absent from every search location
//   - ExecutionError: binary could not be started, or failed its pin
//   - ExternalCommandFailed: binary ran and exited non-zero
//   - Timeout: binary exceeded exec.timeout or the run was interrupted
//
// Use KindOf to classify an error returned by Dispatch.
package dispatch
