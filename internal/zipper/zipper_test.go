package zipper

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cute-todo/internal/tasks"
)

func sample() []tasks.Task {
	created := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	return []tasks.Task{
		{ID: 2, Text: "Walk dog", DueDate: tasks.MustParseDate("2026-10-20"), CreatedAt: created.Add(time.Minute)},
		{ID: 1, Text: "Buy milk", DueDate: tasks.MustParseDate("2026-10-19"), Completed: true, CreatedAt: created},
	}
}

func TestExportImport(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "out", "tasks.zip")
	var progress []int
	if err := ExportWithProgress(sample(), zipPath, func(cur, total int) { progress = append(progress, cur) }); err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(progress) != 2 || progress[1] != 2 {
		t.Fatalf("unexpected progress: %v", progress)
	}

	m, list, err := Import(zipPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if m.Version != ManifestVersion || m.Count != 2 || m.ExportedAt.IsZero() {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	want := sample()
	if len(list) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(list))
	}
	for i := range want {
		if !list[i].Equal(want[i]) {
			t.Fatalf("task %d differs: %+v vs %+v", i, list[i], want[i])
		}
	}
}

func TestExportEmpty(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "empty.zip")
	if err := Export(nil, zipPath); err != nil {
		t.Fatal(err)
	}
	_, list, err := Import(zipPath)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty import, got %v, %v", list, err)
	}
}

func writeZip(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bad.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return path
}

func TestImportRejectsBrokenArchives(t *testing.T) {
	cases := map[string]struct {
		files map[string]string
		want  string
	}{
		"no manifest": {map[string]string{TasksName: "[]"}, "manifest missing"},
		"future":      {map[string]string{ManifestName: `{"version":7,"count":0}`, TasksName: "[]"}, "unsupported"},
		"no tasks":    {map[string]string{ManifestName: `{"version":1,"count":0}`}, "no tasks.json"},
		"count":       {map[string]string{ManifestName: `{"version":1,"count":3}`, TasksName: "[]"}, "says 3 tasks"},
		"garbage":     {map[string]string{ManifestName: `{"version":1,"count":0}`, TasksName: "nope"}, "invalid tasks.json"},
	}
	for name, c := range cases {
		_, _, err := Import(writeZip(t, c.files))
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%s: expected error containing %q, got %v", name, c.want, err)
		}
	}
}
