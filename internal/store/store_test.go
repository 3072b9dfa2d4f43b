package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func exportTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2025-02-28", "DailyUsage.csv"), "old")
	writeFile(t, filepath.Join(root, "2025-03-01", "apps.csv"), "apps")
	writeFile(t, filepath.Join(root, "2025-03-01", "DailyUsage-1.csv"), "first")
	writeFile(t, filepath.Join(root, "2025-03-01", "dailyusage-2.CSV"), "second")
	writeFile(t, filepath.Join(root, "2025-03-01", "notes.txt"), "skip")
	writeFile(t, filepath.Join(root, "archive", "DailyUsage.csv"), "undated")
	if err := os.MkdirAll(filepath.Join(root, "2025-3-2"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return root
}

func TestLatestDatedDirectory(t *testing.T) {
	root := exportTree(t)
	dir, err := LatestDatedDirectory(root)
	if err != nil {
		t.Fatalf("LatestDatedDirectory returned error: %v", err)
	}
	if dir != "2025-03-01" {
		t.Fatalf("unexpected directory: %s", dir)
	}

	empty, err := LatestDatedDirectory(t.TempDir())
	if err != nil || empty != "" {
		t.Fatalf("expected no directory, got %q err %v", empty, err)
	}
}

func TestLatestUsageExportPrefersDailyUsage(t *testing.T) {
	root := exportTree(t)
	export, warnings, err := LatestUsageExport(root)
	if err != nil {
		t.Fatalf("LatestUsageExport returned error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	if export.Directory != "2025-03-01" || export.File != "dailyusage-2.CSV" || export.Text != "second" {
		t.Fatalf("unexpected export: %+v", export)
	}
	if export.Path != filepath.Join(root, "2025-03-01") {
		t.Fatalf("unexpected path: %s", export.Path)
	}
}

func TestLatestUsageExportFallsBackToAnyCSV(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2025-03-01", "a.csv"), "a")
	writeFile(t, filepath.Join(root, "2025-03-01", "b.csv"), "b")

	export, _, err := LatestUsageExport(root)
	if err != nil {
		t.Fatalf("LatestUsageExport returned error: %v", err)
	}
	if export.File != "b.csv" {
		t.Fatalf("expected lexically last file, got %s", export.File)
	}
}

func TestLatestUsageExportMissing(t *testing.T) {
	if _, _, err := LatestUsageExport(t.TempDir()); !errors.Is(err, ErrNoExport) {
		t.Fatalf("expected ErrNoExport for empty root, got %v", err)
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2025-03-01", "notes.txt"), "x")
	if _, _, err := LatestUsageExport(root); !errors.Is(err, ErrNoExport) {
		t.Fatalf("expected ErrNoExport without csv files, got %v", err)
	}

	if _, _, err := LatestUsageExport(""); err == nil {
		t.Fatalf("expected error for empty root")
	}
}

func TestListExports(t *testing.T) {
	root := exportTree(t)
	res, err := ListExports(ListOptions{Root: root})
	if err != nil {
		t.Fatalf("ListExports returned error: %v", err)
	}
	if len(res.Files) != 4 {
		t.Fatalf("expected 4 export files, got %+v", res.Files)
	}
	if res.Files[0].Directory != "2025-03-01" || res.Files[0].File != "DailyUsage-1.csv" {
		t.Fatalf("unexpected first file: %+v", res.Files[0])
	}
	if last := res.Files[3]; last.Directory != "2025-02-28" || last.Size != 3 {
		t.Fatalf("unexpected last file: %+v", last)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}

	limited, err := ListExports(ListOptions{Root: root, Limit: 2})
	if err != nil {
		t.Fatalf("ListExports returned error: %v", err)
	}
	if len(limited.Files) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(limited.Files))
	}

	if _, err := ListExports(ListOptions{}); err == nil {
		t.Fatalf("expected error without root")
	}
	if _, err := ListExports(ListOptions{Root: filepath.Join(root, "missing")}); err == nil {
		t.Fatalf("expected error for missing root")
	}
}
