//go:build mage

package main

import (
	"os"
	"os/exec"
	"strings"
)

// Binary names.
const (
	binGo   = "go"
	binLint = "golangci-lint"
)

// Jobdesk helpers. Each runs the binary built by Build against dataDir.

func jobdesk(dataDir string, args ...string) *exec.Cmd {
	cmd := exec.Command(binaryPath(), append([]string{"--data-dir", dataDir}, args...)...)
	cmd.Stderr = os.Stderr
	return cmd
}

func jobdeskRun(dataDir string, args ...string) error {
	cmd := jobdesk(dataDir, args...)
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func jobdeskOutput(dataDir string, args ...string) ([]byte, error) {
	return jobdesk(dataDir, args...).Output()
}

func jobdeskWithInput(dataDir, stdin string, args ...string) ([]byte, error) {
	cmd := jobdesk(dataDir, args...)
	cmd.Stdin = strings.NewReader(stdin)
	return cmd.Output()
}
