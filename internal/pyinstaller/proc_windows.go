//go:build windows

package pyinstaller

import (
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

func setSysProcAttr(cmd *exec.Cmd) {
	// A separate process group lets CTRL_BREAK reach the tool without
	// signalling our own console.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
}

// windowsTree controls the subprocess through a job object so termination
// covers every helper the packaging tool spawns. When job creation fails the
// tree degrades to per-process termination of the top process.
type windowsTree struct {
	job windows.Handle
	pid uint32
}

func newProcessTree(cmd *exec.Cmd) killer {
	tree := &windowsTree{pid: uint32(cmd.Process.Pid)}

	job, err := windows.CreateJobObject(nil, nil)
	if err != nil {
		return tree
	}

	info := windows.JOBOBJECT_EXTENDED_LIMIT_INFORMATION{
		BasicLimitInformation: windows.JOBOBJECT_BASIC_LIMIT_INFORMATION{
			LimitFlags: windows.JOB_OBJECT_LIMIT_KILL_ON_JOB_CLOSE,
		},
	}
	if _, err := windows.SetInformationJobObject(
		job,
		windows.JobObjectExtendedLimitInformation,
		uintptr(unsafe.Pointer(&info)),
		uint32(unsafe.Sizeof(info)),
	); err != nil {
		_ = windows.CloseHandle(job)
		return tree
	}

	proc, err := windows.OpenProcess(windows.PROCESS_SET_QUOTA|windows.PROCESS_TERMINATE, false, tree.pid)
	if err != nil {
		_ = windows.CloseHandle(job)
		return tree
	}
	defer windows.CloseHandle(proc)

	if err := windows.AssignProcessToJobObject(job, proc); err != nil {
		_ = windows.CloseHandle(job)
		return tree
	}

	tree.job = job
	return tree
}

func (t *windowsTree) Terminate() {
	// There is no SIGTERM analogue; CTRL_BREAK is the politest signal a
	// console tool in its own group can receive.
	_ = windows.GenerateConsoleCtrlEvent(windows.CTRL_BREAK_EVENT, t.pid)
}

func (t *windowsTree) Kill() {
	if t.job != 0 {
		_ = windows.TerminateJobObject(t.job, 1)
		return
	}
	proc, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, t.pid)
	if err != nil {
		return
	}
	defer windows.CloseHandle(proc)
	_ = windows.TerminateProcess(proc, 1)
}

func (t *windowsTree) Close() {
	if t.job != 0 {
		_ = windows.CloseHandle(t.job)
		t.job = 0
	}
}
