package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BackupInfo describes one <db>.bak-<suffix> snapshot.
type BackupInfo struct {
	Path    string
	Suffix  string
	ModTime time.Time
	Size    int64
}

// BackupSuffix is the timestamp suffix used for new snapshots.
func BackupSuffix(now time.Time) string { return now.Format("20060102-150405") }

// Snapshot copies the database file next to itself as <db>.bak-<suffix>.
func (k *SQLiteKV) Snapshot(suffix string) (string, error) {
	if err := k.Checkpoint(); err != nil {
		return "", fmt.Errorf("checkpoint: %w", err)
	}
	dst := k.path + ".bak-" + suffix
	if err := copyFile(k.path, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// ListBackups returns the snapshots of dbPath, newest first.
func ListBackups(dbPath string) ([]BackupInfo, error) {
	dir := filepath.Dir(dbPath)
	prefix := filepath.Base(dbPath) + ".bak-"
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []BackupInfo
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || !strings.HasPrefix(name, prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, BackupInfo{
			Path:    filepath.Join(dir, name),
			Suffix:  strings.TrimPrefix(name, prefix),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModTime.After(out[j].ModTime) })
	return out, nil
}

// RestoreFromBackup replaces dbPath with the snapshot carrying suffix. The
// database must not be open.
func RestoreFromBackup(dbPath, suffix string) error {
	src := dbPath + ".bak-" + suffix
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("backup not found: %s", src)
	}
	if err := copyFile(src, dbPath); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	// stale WAL pages would otherwise be replayed over the restored file
	_ = os.Remove(dbPath + "-wal")
	_ = os.Remove(dbPath + "-shm")
	return nil
}

func copyFile(src, dst string) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	tmp := dst + ".tmp-" + time.Now().Format("20060102-150405")
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}
