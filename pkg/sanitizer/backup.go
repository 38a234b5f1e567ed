package sanitizer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// BackupRecord describes a backup that was actually written. Ephemeral; it is
// reported through the Outcome but not retained after the run.
type BackupRecord struct {
	SourcePath string `json:"sourcePath" yaml:"sourcePath"`
	DestPath   string `json:"destPath" yaml:"destPath"`
}

// BackupManager copies a file's original, unmodified bytes aside before the
// processor overwrites the file. Implementations MUST be safe for concurrent
// use across distinct source paths; directory creation is idempotent.
type BackupManager interface {
	Backup(path string, original []byte) (BackupRecord, error)
}

// dirBackupManager mirrors originals under a backup root, preserving the
// path relative to an injected repository root. With no root configured it
// degrades to sibling <path>.bak files.
type dirBackupManager struct {
	root     string
	repoRoot string
	logger   *slog.Logger
}

// NewBackupManager creates a BackupManager. backupRoot may be empty (sibling
// .bak mode). repoRoot, when non-empty, is the version-control root resolved
// once by the caller; files under it keep their directory structure inside
// backupRoot, anything else is stored by base name.
func NewBackupManager(backupRoot, repoRoot string, loggerHandler slog.Handler) BackupManager {
	logger := slog.New(loggerHandler).With(slog.String("component", "backup"))
	return &dirBackupManager{root: backupRoot, repoRoot: repoRoot, logger: logger}
}

// Backup implements the BackupManager interface.
func (m *dirBackupManager) Backup(path string, original []byte) (BackupRecord, error) {
	dest, err := m.destPath(path)
	if err != nil {
		return BackupRecord{}, err
	}

	if dir := filepath.Dir(dest); dir != "." {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return BackupRecord{}, fmt.Errorf("%w: %w", ErrMkdirFailed, mkErr)
		}
	}

	mode := m.sourceMode(path)
	if writeErr := os.WriteFile(dest, original, mode); writeErr != nil {
		return BackupRecord{}, fmt.Errorf("%w: %w", ErrBackupFailed, writeErr)
	}

	m.logger.Debug("Backup written", slog.String("source", path), slog.String("dest", dest))
	return BackupRecord{SourcePath: path, DestPath: dest}, nil
}

// destPath computes where the backup for path lives.
func (m *dirBackupManager) destPath(path string) (string, error) {
	if m.root == "" {
		return path + ".bak", nil
	}

	rel := filepath.Base(path)
	if m.repoRoot != "" {
		if r, err := filepath.Rel(m.repoRoot, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	return filepath.Join(m.root, rel), nil
}

// sourceMode returns the original file's permission bits, or a sane default
// when the file cannot be stat'ed.
func (m *dirBackupManager) sourceMode(path string) fs.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}
