// Package main provides build targets for admindesk using Mage.
//
// Usage:
//
//	mage build             Compile admindesk binary to bin/
//	mage test:all          Run all tests (unit + integration)
//	mage test:unit         Run only unit tests
//	mage test:integration  Build, then run the CLI integration tests
//	mage lint              Run golangci-lint
//	mage clean             Remove build artifacts
//	mage install           Install admindesk to GOPATH/bin
//	mage serve             Build and run the mock product server
//	mage stats             Print Go LOC per package
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "admindesk"
	binaryDir  = "bin"
	cmdDir     = "./cmd/admindesk"
)

func binaryPath() string {
	return filepath.Join(binaryDir, binaryName)
}

// Build compiles the admindesk binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", binaryPath(), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), binaryPath())
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Serve builds the binary and runs the product server. ADMIN_ADDR
// overrides the listen address.
func Serve() error {
	mg.Deps(Build)
	args := []string{"serve"}
	if addr := os.Getenv("ADMIN_ADDR"); addr != "" {
		args = append(args, "--addr", addr)
	}
	return sh.RunWithV(map[string]string{"ADMINDESK_LATENCY_ENABLED": "false"}, binaryPath(), args...)
}
