//go:build !windows

package pyinstaller

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func setSysProcAttr(cmd *exec.Cmd) {
	// Own process group so a cancel reaches forked sub-tools too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

type unixTree struct {
	pgid int
}

func newProcessTree(cmd *exec.Cmd) killer {
	pid := cmd.Process.Pid
	pgid, err := unix.Getpgid(pid)
	if err != nil {
		pgid = pid
	}
	return &unixTree{pgid: pgid}
}

func (t *unixTree) Terminate() {
	_ = unix.Kill(-t.pgid, unix.SIGTERM)
}

func (t *unixTree) Kill() {
	_ = unix.Kill(-t.pgid, unix.SIGKILL)
}

func (t *unixTree) Close() {}
