//go:build !unix

package invoke

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}

func signalTerminate(cmd *exec.Cmd, group bool) error {
	// No SIGTERM outside unix; go straight to Kill.
	return signalKill(cmd, group)
}

func signalKill(cmd *exec.Cmd, _ bool) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
