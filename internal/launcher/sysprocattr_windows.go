//go:build windows

package launcher

import "os/exec"

func configureCmdSysProcAttr(cmd *exec.Cmd) {}
