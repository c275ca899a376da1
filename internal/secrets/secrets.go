// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads deployment credentials from a directory of
// plain-text files. Each file holds one secret: the filename is the key
// name and the trimmed file contents are the value. Secrets stay out of
// sitegen.yaml so the config file can live in version control.
//
// Known key files: deploy-password.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DeployPassword is the key of the SFTP password secret, consulted when no
// deploy key file is configured.
const DeployPassword = "deploy-password"

// Value returns one secret from dir by key name. A missing directory or
// missing key file is not an error; Value returns "".
func Value(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading secret %s: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty
// map. Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
