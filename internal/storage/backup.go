package storage

import (
	"fmt"
	"io"
	"os"
)

const (
	// BackupSuffix is the file extension for backup files
	BackupSuffix = ".bak"
	// MaxBackupCount is the maximum number of backup files to keep
	MaxBackupCount = 3
)

// BackupPath returns the path of backup n for storagePath, formatted as
// records.json.bak.N. Lower numbers are more recent.
func BackupPath(storagePath string, n int) string {
	return fmt.Sprintf("%s%s.%d", storagePath, BackupSuffix, n)
}

// rotateBackups shifts .bak.1 -> .bak.2 -> .bak.3 and drops the oldest.
// Missing files are skipped.
func rotateBackups(storagePath string) error {
	if err := os.Remove(BackupPath(storagePath, MaxBackupCount)); err != nil && !os.IsNotExist(err) {
		return err
	}

	for i := MaxBackupCount - 1; i >= 1; i-- {
		if err := os.Rename(BackupPath(storagePath, i), BackupPath(storagePath, i+1)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// CreateBackup rotates the backups and copies storagePath to .bak.1.
// A missing storage file is not backed up and is not an error.
func CreateBackup(storagePath string) error {
	if _, err := os.Stat(storagePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := rotateBackups(storagePath); err != nil {
		return err
	}

	return copyFile(storagePath, BackupPath(storagePath, 1))
}

// BackupInfo describes one backup file.
type BackupInfo struct {
	Number  int    // 1 is the most recent
	Path    string
	Records int // readable records in the backup
}

// ListBackups returns the existing backups of storagePath, most recent first.
func ListBackups(storagePath string) ([]BackupInfo, error) {
	backups := []BackupInfo{}

	for i := 1; i <= MaxBackupCount; i++ {
		backupPath := BackupPath(storagePath, i)
		if _, err := os.Stat(backupPath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		info := BackupInfo{Number: i, Path: backupPath}
		if result, err := NewJSONStore(backupPath).Load(); err == nil {
			info.Records = len(result.Records)
		}
		backups = append(backups, info)
	}

	return backups, nil
}

// RestoreBackup replaces storagePath with backup n. The current file is
// backed up first, so a restore can itself be undone.
func RestoreBackup(storagePath string, n int) error {
	if n < 1 || n > MaxBackupCount {
		return fmt.Errorf("invalid backup number %d, must be between 1 and %d", n, MaxBackupCount)
	}

	backupPath := BackupPath(storagePath, n)
	if _, err := os.Stat(backupPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("backup %d does not exist", n)
		}
		return err
	}

	if _, err := NewJSONStore(backupPath).Load(); err != nil {
		return fmt.Errorf("backup %d is unreadable: %w", n, err)
	}

	// Read before rotating; .bak.n moves to .bak.n+1 during CreateBackup.
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return err
	}

	if err := CreateBackup(storagePath); err != nil {
		return err
	}

	return writeFileAtomic(storagePath, data)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
