// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deploy

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"time"

	"github.com/lcad/sitegen/pkg/types"
)

// Options controls a single deploy invocation.
type Options struct {
	// DryRun enumerates the snapshot without opening a connection.
	DryRun bool

	// Password authenticates the SFTP session when no key file is
	// configured.
	Password string
}

// Run assembles a deployment snapshot from cfg.SiteDir and mirrors it to
// the configured remote. A connection failure is fatal before any file is
// transferred. Every invocation, dry runs included, is appended to the
// history ledger when cfg.HistoryDB is set.
func Run(ctx context.Context, cfg types.DeployConfig, opts Options, w io.Writer) error {
	started := time.Now()

	snap, err := Assemble(cfg.SiteDir, cfg.StagingDir)
	if err != nil {
		return fmt.Errorf("assembling snapshot: %w", err)
	}
	fmt.Fprintf(w, "snapshot: %d files, %d bytes\n", len(snap.Entries), snap.TotalBytes())

	var history *History
	if cfg.HistoryDB != "" {
		history, err = OpenHistory(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer history.Close()
	}

	remoteAddr := fmt.Sprintf("%s@%s:%s", cfg.User, cfg.Host, cfg.RemotePath)
	record := Record{
		StartedAt: started,
		Remote:    remoteAddr,
		Files:     len(snap.Entries),
		Bytes:     snap.TotalBytes(),
		DryRun:    opts.DryRun,
	}

	if opts.DryRun {
		for _, e := range snap.Entries {
			fmt.Fprintf(w, "would upload %s (%d bytes)\n", e.Path, e.Size)
		}
		fmt.Fprintf(w, "dry run: %d files, %d bytes, nothing transferred\n",
			len(snap.Entries), snap.TotalBytes())
		record.Status = StatusDryRun
		return addRecord(ctx, history, record)
	}

	remote, err := dialRemote(cfg, opts.Password)
	if err != nil {
		record.Status = StatusFailed
		record.Error = err.Error()
		if recErr := addRecord(ctx, history, record); recErr != nil {
			fmt.Fprintf(w, "warning: %v\n", recErr)
		}
		return err
	}
	defer remote.Close()

	if err := mirror(snap, remote, cfg.DeleteExtraneous, w); err != nil {
		record.Status = StatusFailed
		record.Error = err.Error()
		if recErr := addRecord(ctx, history, record); recErr != nil {
			fmt.Fprintf(w, "warning: %v\n", recErr)
		}
		return err
	}

	fmt.Fprintf(w, "deployed %d files to %s\n", len(snap.Entries), remoteAddr)
	record.Status = StatusOK
	return addRecord(ctx, history, record)
}

// mirror uploads every snapshot file and, when requested, removes remote
// files absent from the snapshot.
func mirror(snap *Snapshot, remote Remote, deleteExtraneous bool, w io.Writer) error {
	made := map[string]bool{".": true}
	for _, e := range snap.Entries {
		if dir := path.Dir(e.Path); !made[dir] {
			if err := remote.MkdirAll(dir); err != nil {
				return fmt.Errorf("creating remote directory %s: %w", dir, err)
			}
			made[dir] = true
		}
		if err := remote.Upload(filepath.Join(snap.Dir, filepath.FromSlash(e.Path)), e.Path); err != nil {
			return err
		}
		fmt.Fprintf(w, "uploaded %s\n", e.Path)
	}

	if !deleteExtraneous {
		return nil
	}

	keep := make(map[string]bool, len(snap.Entries))
	for _, e := range snap.Entries {
		keep[e.Path] = true
	}
	existing, err := remote.List()
	if err != nil {
		return err
	}
	for _, rel := range existing {
		if keep[rel] {
			continue
		}
		if err := remote.Remove(rel); err != nil {
			return fmt.Errorf("removing extraneous %s: %w", rel, err)
		}
		fmt.Fprintf(w, "removed %s\n", rel)
	}
	return nil
}

func addRecord(ctx context.Context, history *History, rec Record) error {
	if history == nil {
		return nil
	}
	return history.Add(ctx, rec)
}
