//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillTree force-terminates pid and every child it spawned via taskkill.
func KillTree(pid int) error {
	if pid <= 0 {
		return ErrInvalidPID
	}
	// /F force, /T whole tree. A non-zero exit for an already gone process is not an error worth surfacing.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
	return nil
}
