// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deploy

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcad/sitegen/pkg/types"
)

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestAssemble_ManifestSortedWithChecksums(t *testing.T) {
	siteDir := writeSite(t, map[string]string{
		"index.html":           "<html>home</html>",
		"publications.html":    "<html>pubs</html>",
		"assets/css/style.css": "body {}",
	})
	staging := filepath.Join(t.TempDir(), "staging")

	snap, err := Assemble(siteDir, staging)
	require.NoError(t, err)

	paths := make([]string, len(snap.Entries))
	for i, e := range snap.Entries {
		paths[i] = e.Path
	}
	assert.Equal(t, []string{"assets/css/style.css", "index.html", "publications.html"}, paths)
	assert.True(t, sort.StringsAreSorted(paths))

	sum := sha256.Sum256([]byte("<html>home</html>"))
	assert.Equal(t, hex.EncodeToString(sum[:]), snap.Entries[1].SHA256)
	assert.Equal(t, int64(len("<html>home</html>")), snap.Entries[1].Size)

	// The staged copy matches the source.
	staged, err := os.ReadFile(filepath.Join(staging, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>home</html>", string(staged))
}

func TestAssemble_DiscardsStaleStaging(t *testing.T) {
	siteDir := writeSite(t, map[string]string{"index.html": "fresh"})
	staging := filepath.Join(t.TempDir(), "staging")
	require.NoError(t, os.MkdirAll(staging, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staging, "deleted.html"), []byte("stale"), 0o644))

	snap, err := Assemble(siteDir, staging)
	require.NoError(t, err)

	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "index.html", snap.Entries[0].Path)
	_, statErr := os.Stat(filepath.Join(staging, "deleted.html"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestAssemble_SkipsDotfiles(t *testing.T) {
	siteDir := writeSite(t, map[string]string{
		"index.html":      "home",
		".git/config":     "secret",
		".well-known-ish": "hidden",
	})

	snap, err := Assemble(siteDir, filepath.Join(t.TempDir(), "staging"))
	require.NoError(t, err)

	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "index.html", snap.Entries[0].Path)
}

func TestAssemble_MissingSiteDirFails(t *testing.T) {
	_, err := Assemble(filepath.Join(t.TempDir(), "absent"), filepath.Join(t.TempDir(), "staging"))
	require.Error(t, err)
}

func TestHistory_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history", "deploys.db")
	h, err := OpenHistory(path)
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	require.NoError(t, h.Add(ctx, Record{
		StartedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Remote:    "deploy@lcad.inf.ufes.br:/var/www/site",
		Files:     12,
		Bytes:     34567,
		DryRun:    true,
		Status:    StatusDryRun,
	}))
	require.NoError(t, h.Add(ctx, Record{
		StartedAt: time.Date(2026, 3, 2, 9, 5, 0, 0, time.UTC),
		Remote:    "deploy@lcad.inf.ufes.br:/var/www/site",
		Files:     12,
		Bytes:     34567,
		Status:    StatusOK,
	}))

	records, err := h.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, StatusOK, records[0].Status)
	assert.False(t, records[0].DryRun)
	assert.Equal(t, StatusDryRun, records[1].Status)
	assert.True(t, records[1].DryRun)
	assert.Equal(t, 12, records[1].Files)
	assert.Equal(t, int64(34567), records[1].Bytes)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), records[1].StartedAt)
}

// fakeRemote records mirror operations in memory.
type fakeRemote struct {
	files  map[string]string
	dirs   []string
	closed bool
}

func newFakeRemote(existing map[string]string) *fakeRemote {
	if existing == nil {
		existing = map[string]string{}
	}
	return &fakeRemote{files: existing}
}

func (f *fakeRemote) MkdirAll(dir string) error {
	f.dirs = append(f.dirs, dir)
	return nil
}

func (f *fakeRemote) Upload(local, rel string) error {
	data, err := os.ReadFile(local)
	if err != nil {
		return err
	}
	f.files[rel] = string(data)
	return nil
}

func (f *fakeRemote) List() ([]string, error) {
	var names []string
	for name := range f.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeRemote) Remove(rel string) error {
	delete(f.files, rel)
	return nil
}

func (f *fakeRemote) Close() error {
	f.closed = true
	return nil
}

func stubDial(t *testing.T, fn func(types.DeployConfig, string) (Remote, error)) {
	t.Helper()
	orig := dialRemote
	dialRemote = fn
	t.Cleanup(func() { dialRemote = orig })
}

func testDeployConfig(t *testing.T, siteDir string) types.DeployConfig {
	t.Helper()
	dir := t.TempDir()
	return types.DeployConfig{
		Host:       "lcad.inf.ufes.br",
		User:       "deploy",
		RemotePath: "/var/www/site",
		SiteDir:    siteDir,
		StagingDir: filepath.Join(dir, "staging"),
		HistoryDB:  filepath.Join(dir, "deploys.db"),
	}
}

func TestRun_MirrorsSnapshot(t *testing.T) {
	siteDir := writeSite(t, map[string]string{
		"index.html":           "home",
		"assets/css/style.css": "body {}",
	})
	cfg := testDeployConfig(t, siteDir)

	remote := newFakeRemote(map[string]string{"removed.html": "old"})
	cfg.DeleteExtraneous = true
	stubDial(t, func(types.DeployConfig, string) (Remote, error) { return remote, nil })

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, Options{}, &out))

	assert.Equal(t, map[string]string{
		"index.html":           "home",
		"assets/css/style.css": "body {}",
	}, remote.files)
	assert.Contains(t, remote.dirs, "assets/css")
	assert.True(t, remote.closed)
	assert.Contains(t, out.String(), "uploaded index.html")
	assert.Contains(t, out.String(), "removed removed.html")

	h, err := OpenHistory(cfg.HistoryDB)
	require.NoError(t, err)
	defer h.Close()
	records, err := h.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, StatusOK, records[0].Status)
	assert.Equal(t, 2, records[0].Files)
}

func TestRun_KeepsExtraneousByDefault(t *testing.T) {
	siteDir := writeSite(t, map[string]string{"index.html": "home"})
	cfg := testDeployConfig(t, siteDir)

	remote := newFakeRemote(map[string]string{"archive.html": "keep me"})
	stubDial(t, func(types.DeployConfig, string) (Remote, error) { return remote, nil })

	require.NoError(t, Run(context.Background(), cfg, Options{}, &bytes.Buffer{}))
	assert.Equal(t, "keep me", remote.files["archive.html"])
}

func TestRun_DryRunNeverDials(t *testing.T) {
	siteDir := writeSite(t, map[string]string{
		"index.html":        "home page",
		"publications.html": "pubs",
	})
	cfg := testDeployConfig(t, siteDir)

	stubDial(t, func(types.DeployConfig, string) (Remote, error) {
		t.Fatal("dry run opened a connection")
		return nil, nil
	})

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, Options{DryRun: true}, &out))

	assert.Contains(t, out.String(), "would upload index.html")
	assert.Contains(t, out.String(), "would upload publications.html")
	assert.Contains(t, out.String(), "dry run: 2 files")

	h, err := OpenHistory(cfg.HistoryDB)
	require.NoError(t, err)
	defer h.Close()
	records, err := h.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].DryRun)
	assert.Equal(t, StatusDryRun, records[0].Status)
}

func TestRun_ConnectFailureIsFatalBeforeTransfer(t *testing.T) {
	siteDir := writeSite(t, map[string]string{"index.html": "home"})
	cfg := testDeployConfig(t, siteDir)

	stubDial(t, func(types.DeployConfig, string) (Remote, error) {
		return nil, assert.AnError
	})

	err := Run(context.Background(), cfg, Options{}, &bytes.Buffer{})
	require.Error(t, err)

	h, openErr := OpenHistory(cfg.HistoryDB)
	require.NoError(t, openErr)
	defer h.Close()
	records, recErr := h.Recent(context.Background(), 1)
	require.NoError(t, recErr)
	require.Len(t, records, 1)
	assert.Equal(t, StatusFailed, records[0].Status)
}

func TestRun_UploadFailureRecordedAsFailed(t *testing.T) {
	siteDir := writeSite(t, map[string]string{"index.html": "home"})
	cfg := testDeployConfig(t, siteDir)

	stubDial(t, func(types.DeployConfig, string) (Remote, error) {
		return &failingRemote{}, nil
	})

	err := Run(context.Background(), cfg, Options{}, &bytes.Buffer{})
	require.Error(t, err)

	h, openErr := OpenHistory(cfg.HistoryDB)
	require.NoError(t, openErr)
	defer h.Close()
	records, recErr := h.Recent(context.Background(), 1)
	require.NoError(t, recErr)
	require.Len(t, records, 1)
	assert.Equal(t, StatusFailed, records[0].Status)
	assert.NotEmpty(t, records[0].Error)
}

type failingRemote struct{}

func (failingRemote) MkdirAll(string) error       { return nil }
func (failingRemote) Upload(string, string) error { return assert.AnError }
func (failingRemote) List() ([]string, error)     { return nil, nil }
func (failingRemote) Remove(string) error         { return nil }
func (failingRemote) Close() error                { return nil }

func TestAuthMethods(t *testing.T) {
	t.Run("password fallback", func(t *testing.T) {
		methods, err := authMethods("", "hunter2")
		require.NoError(t, err)
		assert.Len(t, methods, 1)
	})
	t.Run("no credentials", func(t *testing.T) {
		_, err := authMethods("", "")
		require.Error(t, err)
	})
	t.Run("missing key file", func(t *testing.T) {
		_, err := authMethods(filepath.Join(t.TempDir(), "absent"), "")
		require.Error(t, err)
	})
}
