//go:build unix

package execshell

import (
	"os/exec"
	"syscall"
)

func detachProcessGroup(executable *exec.Cmd) {
	executable.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
