// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deploy assembles a deployment snapshot of the site tree and
// mirrors it to the web host over SFTP. Every invocation is recorded in a
// SQLite history ledger.
package deploy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lcad/sitegen/internal/fsutil"
)

// ManifestEntry describes one file of the deployment snapshot.
type ManifestEntry struct {
	// Path is relative to the snapshot root, slash-separated.
	Path   string
	Size   int64
	SHA256 string
}

// Snapshot is an assembled deployment candidate: a staged copy of the site
// tree plus its manifest, sorted by path.
type Snapshot struct {
	Dir     string
	Entries []ManifestEntry
}

// TotalBytes sums the size of every file in the snapshot.
func (s *Snapshot) TotalBytes() int64 {
	var n int64
	for _, e := range s.Entries {
		n += e.Size
	}
	return n
}

// Assemble stages a fresh copy of siteDir under stagingDir and returns the
// snapshot with its manifest. Any previous staging content is discarded
// first, so the snapshot never carries files deleted from the site tree.
// Dotfiles are excluded.
func Assemble(siteDir, stagingDir string) (*Snapshot, error) {
	info, err := os.Stat(siteDir)
	if err != nil {
		return nil, fmt.Errorf("site directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site directory %s is not a directory", siteDir)
	}

	if err := os.RemoveAll(stagingDir); err != nil {
		return nil, fmt.Errorf("clearing staging directory: %w", err)
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}

	err = filepath.WalkDir(siteDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != siteDir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(siteDir, path)
		if err != nil {
			return err
		}
		return fsutil.CopyFile(path, filepath.Join(stagingDir, rel))
	})
	if err != nil {
		return nil, fmt.Errorf("staging site tree: %w", err)
	}

	entries, err := buildManifest(stagingDir)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Dir: stagingDir, Entries: entries}, nil
}

// buildManifest walks root and returns one checksummed entry per file,
// sorted by relative path.
func buildManifest(root string) ([]ManifestEntry, error) {
	var entries []ManifestEntry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		sum, size, err := checksumFile(path)
		if err != nil {
			return err
		}
		entries = append(entries, ManifestEntry{
			Path:   filepath.ToSlash(rel),
			Size:   size,
			SHA256: sum,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("building manifest: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func checksumFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}
