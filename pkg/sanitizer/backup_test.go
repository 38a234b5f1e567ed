package sanitizer

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardHandler() slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})
}

func TestBackupSiblingMode(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "file.txt")
	content := []byte("original content\r\n")
	require.NoError(t, os.WriteFile(source, content, 0o640))

	mgr := NewBackupManager("", "", discardHandler())
	record, err := mgr.Backup(source, content)
	require.NoError(t, err)

	assert.Equal(t, source, record.SourcePath)
	assert.Equal(t, source+".bak", record.DestPath)

	saved, err := os.ReadFile(record.DestPath)
	require.NoError(t, err)
	assert.Equal(t, content, saved, "backup must hold the unmodified original bytes")

	info, err := os.Stat(record.DestPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestBackupRootPreservesRepoLayout(t *testing.T) {
	repoRoot := t.TempDir()
	backupRoot := filepath.Join(t.TempDir(), "backups")
	source := filepath.Join(repoRoot, "src", "nested", "file.txt")
	content := []byte("data\n")
	require.NoError(t, os.MkdirAll(filepath.Dir(source), 0o755))
	require.NoError(t, os.WriteFile(source, content, 0o644))

	mgr := NewBackupManager(backupRoot, repoRoot, discardHandler())
	record, err := mgr.Backup(source, content)
	require.NoError(t, err)

	expected := filepath.Join(backupRoot, "src", "nested", "file.txt")
	assert.Equal(t, expected, record.DestPath)

	saved, err := os.ReadFile(expected)
	require.NoError(t, err)
	assert.Equal(t, content, saved)
}

func TestBackupRootOutsideRepoUsesBaseName(t *testing.T) {
	backupRoot := filepath.Join(t.TempDir(), "backups")
	outside := filepath.Join(t.TempDir(), "deep", "file.txt")
	content := []byte("data\n")
	require.NoError(t, os.MkdirAll(filepath.Dir(outside), 0o755))
	require.NoError(t, os.WriteFile(outside, content, 0o644))

	// Repo root that does not contain the source path.
	mgr := NewBackupManager(backupRoot, t.TempDir(), discardHandler())
	record, err := mgr.Backup(outside, content)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(backupRoot, "file.txt"), record.DestPath)
}

func TestBackupOverwritesPreviousBackup(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "file.txt")
	require.NoError(t, os.WriteFile(source, []byte("v1\n"), 0o644))

	mgr := NewBackupManager("", "", discardHandler())
	_, err := mgr.Backup(source, []byte("v1\n"))
	require.NoError(t, err)

	record, err := mgr.Backup(source, []byte("v2\n"))
	require.NoError(t, err)

	saved, err := os.ReadFile(record.DestPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2\n"), saved)
}

func TestBackupFailureReturnsTypedError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	tmpDir := t.TempDir()
	readonly := filepath.Join(tmpDir, "readonly")
	require.NoError(t, os.MkdirAll(readonly, 0o555))
	t.Cleanup(func() { _ = os.Chmod(readonly, 0o755) })

	source := filepath.Join(readonly, "file.txt")

	mgr := NewBackupManager("", "", discardHandler())
	_, err := mgr.Backup(source, []byte("data\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackupFailed)
}
