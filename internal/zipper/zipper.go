// Package zipper moves task collections between machines as zip archives.
package zipper

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cute-todo/internal/tasks"
)

const (
	ManifestName = "cute-todo-manifest.json"
	TasksName    = "tasks.json"

	// ManifestVersion is written into new archives.
	ManifestVersion = 1
)

// ProgressCallback is called during export with (current, total) tasks written.
type ProgressCallback func(current, total int)

type Manifest struct {
	Version    int       `json:"version"`
	Count      int       `json:"count"`
	ExportedAt time.Time `json:"exportedAt"`
}

// Export writes list into a new archive at zipPath.
func Export(list []tasks.Task, zipPath string) error {
	return ExportWithProgress(list, zipPath, nil)
}

// ExportWithProgress is Export with progress reporting.
func ExportWithProgress(list []tasks.Task, zipPath string, progress ProgressCallback) error {
	if err := os.MkdirAll(filepath.Dir(zipPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer f.Close()
	zw := zip.NewWriter(f)

	if list == nil {
		list = []tasks.Task{}
	}
	m := Manifest{Version: ManifestVersion, Count: len(list), ExportedAt: time.Now().UTC()}
	if err := writeJSON(zw, ManifestName, m); err != nil {
		return err
	}

	w, err := zw.Create(TasksName)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return err
	}
	for i, t := range list {
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		sep := ",\n"
		if i == len(list)-1 {
			sep = "\n"
		}
		if _, err := fmt.Fprintf(w, "  %s%s", b, sep); err != nil {
			return err
		}
		if progress != nil {
			progress(i+1, len(list))
		}
	}
	if _, err := io.WriteString(w, "]\n"); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return f.Close()
}

// Import reads the tasks stored in an archive written by Export. It does not
// touch the store; callers merge the result with Store.Import.
func Import(zipPath string) (Manifest, []tasks.Task, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return Manifest{}, nil, err
	}
	defer r.Close()

	var (
		manifest              Manifest
		list                  []tasks.Task
		hasManifest, hasTasks bool
	)
	for _, f := range r.File {
		switch {
		case strings.EqualFold(filepath.Base(f.Name), ManifestName):
			if err := readJSON(f, &manifest); err != nil {
				return Manifest{}, nil, fmt.Errorf("invalid manifest in %s: %w", zipPath, err)
			}
			hasManifest = true
		case strings.EqualFold(filepath.Base(f.Name), TasksName):
			if err := readJSON(f, &list); err != nil {
				return Manifest{}, nil, fmt.Errorf("invalid %s in %s: %w", TasksName, zipPath, err)
			}
			hasTasks = true
		}
	}
	if !hasManifest {
		return Manifest{}, nil, fmt.Errorf("manifest missing in %s", zipPath)
	}
	if manifest.Version < 1 || manifest.Version > ManifestVersion {
		return Manifest{}, nil, fmt.Errorf("unsupported archive version %d", manifest.Version)
	}
	if !hasTasks {
		return Manifest{}, nil, errors.New("archive has no " + TasksName)
	}
	if manifest.Count != len(list) {
		return Manifest{}, nil, fmt.Errorf("manifest says %d tasks, archive has %d", manifest.Count, len(list))
	}
	return manifest, list, nil
}

func writeJSON(zw *zip.Writer, name string, v any) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func readJSON(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return json.NewDecoder(rc).Decode(v)
}
