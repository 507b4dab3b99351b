//go:build unix

package invoke

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the child in its own process group so termination
// reaches any processes it spawned.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func signalTerminate(cmd *exec.Cmd, group bool) error {
	return signalProcess(cmd, syscall.SIGTERM, group)
}

func signalKill(cmd *exec.Cmd, group bool) error {
	return signalProcess(cmd, syscall.SIGKILL, group)
}

// signalProcess delivers sig to the child's process group, or to the child alone
// when it shares ours.
func signalProcess(cmd *exec.Cmd, sig syscall.Signal, group bool) error {
	if cmd.Process == nil {
		return nil
	}
	pid := cmd.Process.Pid
	if group {
		pid = -pid
	}
	if err := syscall.Kill(pid, sig); err != nil && err != syscall.ESRCH {
		return err
	}
	return nil
}
