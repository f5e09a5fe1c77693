//go:build !unix

package execshell

import "os/exec"

func detachProcessGroup(*exec.Cmd) {}
