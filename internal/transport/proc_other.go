//go:build !unix

package transport

import "os/exec"

// killGroup is a no-op; WaitDelay still bounds the wait for children.
func killGroup(*exec.Cmd) {}
