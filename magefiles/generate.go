//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// run executes the built CLI with the given arguments.
func run(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Generate rebuilds the site pages from the persisted data files.
func Generate() error {
	mg.Deps(Build)
	return run("generate")
}

// Update refreshes the Scholar metrics snapshot and regenerates the site.
func Update() error {
	mg.Deps(Build)
	return run("run")
}

// Preview lists what a deploy would transfer, without connecting.
func Preview() error {
	mg.Deps(Build)
	return run("deploy", "--dry-run")
}
