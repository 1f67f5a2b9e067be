package services

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	backupRetentionDays = 30
	appVersion          = "2.0.0"
)

// BackupManifest is written into every archive so a restore knows what it is
// looking at.
type BackupManifest struct {
	Timestamp  string   `json:"timestamp"`
	Type       string   `json:"type"`
	Files      []string `json:"files"`
	GoVersion  string   `json:"go_version"`
	AppVersion string   `json:"app_version"`
}

// BackupInfo describes one archive on disk.
type BackupInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupManager zips the critical files and directories into timestamped
// archives and prunes old ones.
type BackupManager struct {
	BackupDir string
	Files     []string
	Dirs      []string
}

// NewBackupManager prepares the backup directory.
func NewBackupManager(backupDir string, files, dirs []string) *BackupManager {
	if err := os.MkdirAll(backupDir, os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create backup directory: %v", err)
	}
	return &BackupManager{BackupDir: backupDir, Files: files, Dirs: dirs}
}

// CreateBackup archives every existing critical file and directory plus a
// manifest, then prunes archives older than the retention window. Missing
// sources are skipped, not errors.
func (b *BackupManager) CreateBackup(backupType string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	zipPath := filepath.Join(b.BackupDir, fmt.Sprintf("backup_%s_%s.zip", backupType, timestamp))

	f, err := os.Create(zipPath)
	if err != nil {
		return "", err
	}

	zw := zip.NewWriter(f)
	var backedUp []string

	for _, file := range b.Files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := addFileToZip(zw, file, filepath.Base(file)); err != nil {
			zw.Close()
			f.Close()
			os.Remove(zipPath)
			return "", err
		}
		backedUp = append(backedUp, file)
	}

	for _, dir := range b.Dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := addDirToZip(zw, dir); err != nil {
			zw.Close()
			f.Close()
			os.Remove(zipPath)
			return "", err
		}
		backedUp = append(backedUp, dir)
	}

	manifest := BackupManifest{
		Timestamp:  timestamp,
		Type:       backupType,
		Files:      backedUp,
		GoVersion:  runtime.Version(),
		AppVersion: appVersion,
	}
	manifestBytes, err := json.MarshalIndent(manifest, "", "  ")
	if err == nil {
		var w io.Writer
		if w, err = zw.Create("manifest.json"); err == nil {
			_, err = w.Write(manifestBytes)
		}
	}
	if err != nil {
		zw.Close()
		f.Close()
		os.Remove(zipPath)
		return "", err
	}

	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(zipPath)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	if err := b.CleanOldBackups(backupRetentionDays); err != nil {
		log.Printf("Warning: Failed to clean old backups: %v", err)
	}

	return zipPath, nil
}

func addFileToZip(zw *zip.Writer, path, arcName string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := zw.Create(arcName)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

func addDirToZip(zw *zip.Writer, dir string) error {
	base := filepath.Base(dir)
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		return addFileToZip(zw, path, filepath.ToSlash(filepath.Join(base, rel)))
	})
}

// CleanOldBackups removes archives older than the given number of days.
func (b *BackupManager) CleanOldBackups(days int) error {
	cutoff := time.Now().AddDate(0, 0, -days)

	entries, err := os.ReadDir(b.BackupDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "backup_") || !strings.HasSuffix(name, ".zip") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(b.BackupDir, name)); err != nil {
				log.Printf("Warning: Failed to remove old backup %s: %v", name, err)
			} else {
				log.Printf("Removed old backup: %s", name)
			}
		}
	}
	return nil
}

// ListBackups returns the archives on disk, newest first.
func (b *BackupManager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(b.BackupDir)
	if err != nil {
		return nil, err
	}

	var backups []BackupInfo
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "backup_") || !strings.HasSuffix(name, ".zip") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Name:      name,
			Path:      filepath.Join(b.BackupDir, name),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	// Newest first
	for i, j := 0, len(backups)-1; i < j; i, j = i+1, j-1 {
		backups[i], backups[j] = backups[j], backups[i]
	}
	return backups, nil
}

// RunDailyScheduler blocks, creating one backup shortly after each midnight
// until stop is closed. Run it on its own goroutine; it is independent of the
// request path.
func (b *BackupManager) RunDailyScheduler(stop <-chan struct{}) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)

		select {
		case <-stop:
			return
		case <-time.After(next.Sub(now)):
		}

		if path, err := b.CreateBackup("daily"); err != nil {
			log.Printf("Daily backup failed: %v", err)
		} else {
			log.Printf("Daily backup created: %s", path)
		}
	}
}
