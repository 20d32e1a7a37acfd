//go:build mage

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binName    = "zdefects"
	binDir     = "bin"
	modulePath = "github.com/dkoosis/zdefects"
)

// Default target - build the binary
var Default = Build

// Build builds the zdefects binary with version information
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	pkg := modulePath + "/internal/version"
	ldflags := strings.Join([]string{
		"-X " + pkg + ".Version=" + gitOutput("describe", "--tags", "--always", "--dirty"),
		"-X " + pkg + ".CommitHash=" + gitOutput("rev-parse", "--short", "HEAD"),
		"-X " + pkg + ".BuildDate=" + time.Now().UTC().Format(time.RFC3339),
	}, " ")
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", filepath.Join(binDir, binName), "./cmd/zdefects")
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm(binDir)
}

// Report builds the binary and regenerates the dashboard for the current workspace
func Report() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "--summary")
}

// QA runs formatting, vet, lint and the race-enabled test suite
func QA() {
	mg.SerialDeps(Lint.All, Test.Race)
}

// Lint namespace for linting commands
type Lint mg.Namespace

// All runs all linters
func (Lint) All() {
	mg.SerialDeps(Lint.Format, Lint.Vet, Lint.Golangci)
}

// Format fails when any file needs gofmt
func (Lint) Format() error {
	out, err := sh.Output("gofmt", "-l", "cmd", "internal", "pkg")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Vet runs go vet
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Golangci runs golangci-lint when it is installed
func (Lint) Golangci() error {
	err := sh.RunV("golangci-lint", "run", "--timeout=5m", "./...")
	if isCommandNotFound(err) {
		fmt.Fprintln(os.Stderr, "golangci-lint not found, skipping")
		return nil
	}
	return err
}

// Test namespace for testing commands
type Test mg.Namespace

// All runs all tests
func (Test) All() error {
	return sh.RunV("go", "test", "./...")
}

// Coverage runs tests with coverage
func (Test) Coverage() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Race runs tests with race detector
func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil || out == "" {
		return "unknown"
	}
	return out
}

func isCommandNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}
