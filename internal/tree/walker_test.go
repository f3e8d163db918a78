package tree

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treels/internal/config"
	"treels/internal/errors"
	"treels/pkg/types"
)

// writeTree creates files and directories under dir: entries ending in
// "/" become directories, everything else a small file.
func writeTree(t *testing.T, dir string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(dir, strings.TrimSuffix(p, "/"))
		if strings.HasSuffix(p, "/") {
			require.NoError(t, os.MkdirAll(full, 0o755))
		} else {
			require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
			require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
		}
	}
}

func runWalk(t *testing.T, cfg *config.Config, roots ...string) (string, error) {
	t.Helper()
	cfg.ColorMode = types.ColorNever
	var buf bytes.Buffer
	err := Run(cfg, NewFilesystemSource(), &buf, roots)
	return buf.String(), err
}

func TestWalkBasicTree(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "a/c.txt", "b.txt")

	out, err := runWalk(t, config.New(), dir)
	require.NoError(t, err)

	want := dir + "\n" +
		"├── a\n" +
		"│   └── c.txt\n" +
		"└── b.txt\n" +
		"\n1 directories, 2 files\n"
	assert.Equal(t, want, out)
}

func TestWalkCountsMatchRenderedLines(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "d1/f1", "d1/f2", "d2/d3/f3", "top.txt")

	out, err := runWalk(t, config.New(), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "3 directories, 4 files")

	// Every entry line carries a connector; counts must agree.
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	connectors := 0
	for _, l := range lines {
		if strings.Contains(l, "├── ") || strings.Contains(l, "└── ") {
			connectors++
		}
	}
	assert.Equal(t, 7, connectors)
}

func TestWalkIncludeExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "a.txt", "b.txt", "c.log")

	cfg := config.New()
	cfg.IncludePattern = "*.txt"
	cfg.ExcludePattern = "b*"
	out, err := runWalk(t, cfg, dir)
	require.NoError(t, err)

	assert.Contains(t, out, "a.txt")
	assert.NotContains(t, out, "b.txt")
	assert.NotContains(t, out, "c.log")
	assert.Contains(t, out, "0 directories, 1 files")
}

func TestWalkDepthLimit(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "sub/deep.txt")

	cfg := config.New()
	cfg.MaxDepth = 1
	out, err := runWalk(t, cfg, dir)
	require.NoError(t, err)

	assert.Contains(t, out, "sub")
	assert.NotContains(t, out, "deep.txt")
	assert.Contains(t, out, "1 directories, 0 files")
}

func TestWalkEntryLimitSuppressesAllChildren(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "big/f1", "big/f2", "big/f3", "small/only")

	cfg := config.New()
	cfg.EntryLimit = 2
	out, err := runWalk(t, cfg, dir)
	require.NoError(t, err)

	assert.Contains(t, out, "big")
	assert.NotContains(t, out, "f1")
	assert.NotContains(t, out, "f2")
	assert.NotContains(t, out, "f3")
	assert.Contains(t, out, "only")
	assert.Contains(t, out, "2 directories, 1 files")
}

func TestWalkDirsOnly(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "sub/nested/", "a.txt")

	cfg := config.New()
	cfg.DirsOnly = true
	out, err := runWalk(t, cfg, dir)
	require.NoError(t, err)

	assert.Contains(t, out, "sub")
	assert.Contains(t, out, "nested")
	assert.NotContains(t, out, "a.txt")
	assert.Contains(t, out, "2 directories, 0 files")
}

func TestWalkSymlinkNotFollowedByDefault(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "real/file.txt")
	require.NoError(t, os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "link")))

	out, err := runWalk(t, config.New(), dir)
	require.NoError(t, err)

	assert.Contains(t, out, "link -> ")
	// The link is listed but never descended.
	assert.Equal(t, 1, strings.Count(out, "file.txt"))
}

func TestWalkSymlinkCycleTerminates(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "a/b/")
	// a/b/up points back to a, an ancestor of the descent.
	require.NoError(t, os.Symlink(filepath.Join(dir, "a"), filepath.Join(dir, "a", "b", "up")))

	cfg := config.New()
	cfg.FollowLinks = true
	out, err := runWalk(t, cfg, dir)
	require.NoError(t, err)

	// The link renders exactly once, with its target, and the walk ends.
	assert.Equal(t, 1, strings.Count(out, "up -> "))
}

func TestWalkFollowedSymlinkDescends(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "real/inner.txt")
	require.NoError(t, os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "link")))

	cfg := config.New()
	cfg.FollowLinks = true
	out, err := runWalk(t, cfg, dir)
	require.NoError(t, err)

	// Both the real directory and the followed link show the file.
	assert.Equal(t, 2, strings.Count(out, "inner.txt"))
}

func TestWalkGlyphCorrectness(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "a.txt", "b.txt", "c.txt")

	out, err := runWalk(t, config.New(), dir)
	require.NoError(t, err)

	assert.Contains(t, out, "├── a.txt")
	assert.Contains(t, out, "├── b.txt")
	assert.Contains(t, out, "└── c.txt")
}

func TestWalkMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")
	out, err := runWalk(t, config.New(), missing)

	require.Error(t, err)
	assert.Equal(t, errors.KindRoot, errors.KindOf(err))
	assert.Contains(t, out, "gone [error opening dir]")
}

func TestWalkRemainingRootsAfterFailure(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "ok.txt")
	missing := filepath.Join(dir, "gone")

	out, err := runWalk(t, config.New(), missing, dir)
	require.Error(t, err)
	// The second root is still listed and counted.
	assert.Contains(t, out, "ok.txt")
	assert.Contains(t, out, "0 directories, 1 files")
}

func TestWalkUnreadableDirectoryRecovers(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	writeTree(t, dir, "locked/secret.txt", "visible.txt")
	require.NoError(t, os.Chmod(filepath.Join(dir, "locked"), 0o000))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(dir, "locked"), 0o755) })

	out, err := runWalk(t, config.New(), dir)
	require.Error(t, err)
	assert.Equal(t, errors.KindWalk, errors.KindOf(err))

	assert.Contains(t, out, "locked [error opening dir]")
	assert.NotContains(t, out, "secret.txt")
	assert.Contains(t, out, "visible.txt")
	assert.Contains(t, out, "1 directories, 1 files")
}

func TestWalkNoSummary(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "a.txt")

	cfg := config.New()
	cfg.NoSummary = true
	out, err := runWalk(t, cfg, dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "directories")
}

func TestWalkListingSource(t *testing.T) {
	cfg := config.New()
	cfg.ColorMode = types.ColorNever
	src, err := NewListingSource(strings.NewReader("x/y.txt\nz.txt\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Run(cfg, src, &buf, []string{"."}))

	want := ".\n" +
		"├── x\n" +
		"│   └── y.txt\n" +
		"└── z.txt\n" +
		"\n1 directories, 2 files\n"
	assert.Equal(t, want, buf.String())
}

func TestWalkHiddenEntriesCountedWhenShown(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, ".hidden", "plain.txt")

	out, err := runWalk(t, config.New(), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "0 directories, 1 files")

	cfg := config.New()
	cfg.ShowHidden = true
	out, err = runWalk(t, cfg, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "0 directories, 2 files")
}
