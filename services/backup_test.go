package services

import (
	"archive/zip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateBackup(t *testing.T) {
	dir := t.TempDir()

	dbFile := filepath.Join(dir, "test.db")
	if err := os.WriteFile(dbFile, []byte("database bytes"), 0644); err != nil {
		t.Fatalf("write db file: %v", err)
	}

	templateDir := filepath.Join(dir, "templates")
	if err := os.MkdirAll(templateDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(templateDir, "surat.docx"), []byte("PK fake"), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	mgr := NewBackupManager(filepath.Join(dir, "backups"),
		[]string{dbFile, filepath.Join(dir, "missing.db")},
		[]string{templateDir})

	path, err := mgr.CreateBackup("manual")
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "backup_manual_") {
		t.Errorf("archive name = %s", filepath.Base(path))
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer zr.Close()

	entries := map[string]bool{}
	var manifest BackupManifest
	for _, f := range zr.File {
		entries[f.Name] = true
		if f.Name == "manifest.json" {
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("open manifest: %v", err)
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				t.Fatalf("read manifest: %v", err)
			}
			if err := json.Unmarshal(data, &manifest); err != nil {
				t.Fatalf("parse manifest: %v", err)
			}
		}
	}

	if !entries["test.db"] {
		t.Error("database file missing from archive")
	}
	if !entries["templates/surat.docx"] {
		t.Errorf("template missing from archive, entries = %v", entries)
	}
	if !entries["manifest.json"] {
		t.Fatal("manifest missing")
	}

	if manifest.Type != "manual" {
		t.Errorf("manifest type = %q", manifest.Type)
	}
	if manifest.AppVersion != appVersion {
		t.Errorf("manifest app version = %q", manifest.AppVersion)
	}
	// The missing file was skipped, not recorded
	if len(manifest.Files) != 2 {
		t.Errorf("manifest files = %v", manifest.Files)
	}
}

func TestCleanOldBackups(t *testing.T) {
	dir := t.TempDir()
	mgr := NewBackupManager(dir, nil, nil)

	oldArchive := filepath.Join(dir, "backup_daily_20200101_000000.zip")
	newArchive := filepath.Join(dir, "backup_daily_20990101_000000.zip")
	unrelated := filepath.Join(dir, "notes.zip")
	for _, f := range []string{oldArchive, newArchive, unrelated} {
		if err := os.WriteFile(f, []byte("zip"), 0644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}

	// Age the old archive by modtime; that is what pruning checks
	past := time.Now().AddDate(0, 0, -60)
	if err := os.Chtimes(oldArchive, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if err := mgr.CleanOldBackups(30); err != nil {
		t.Fatalf("clean: %v", err)
	}

	if _, err := os.Stat(oldArchive); !os.IsNotExist(err) {
		t.Error("old archive survived pruning")
	}
	if _, err := os.Stat(newArchive); err != nil {
		t.Error("recent archive removed")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("unrelated zip removed")
	}
}

func TestListBackups(t *testing.T) {
	dir := t.TempDir()
	mgr := NewBackupManager(dir, nil, nil)

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("expected empty, got %v", backups)
	}

	for _, name := range []string{"backup_manual_a.zip", "backup_daily_b.zip", "ignore.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("zip"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("backups = %v", backups)
	}
	for _, b := range backups {
		if b.Size == 0 || b.Name == "ignore.txt" {
			t.Errorf("entry = %+v", b)
		}
	}
}
