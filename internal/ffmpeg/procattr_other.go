//go:build !unix

package ffmpeg

import "os/exec"

// configureProcess keeps exec.CommandContext's default Process.Kill on cancel.
func configureProcess(cmd *exec.Cmd) {}
