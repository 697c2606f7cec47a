package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds everything the app reads from its config file. Flags given on
// the command line are merged on top by main.
type Config struct {
	DBPath           string `json:"dbPath" toml:"db_path"`
	StorageKey       string `json:"storageKey" toml:"storage_key"`
	HooksDir         string `json:"hooksDir" toml:"hooks_dir"`
	ExportDir        string `json:"exportDir" toml:"export_dir"` // report/archive destination, "." when empty
	LogFile          string `json:"logFile" toml:"log_file"`
	Debug            bool   `json:"debug" toml:"debug"`
	SearchDebounceMs int    `json:"searchDebounceMs" toml:"search_debounce_ms"`
	NoticeTTLMs      int    `json:"noticeTtlMs" toml:"notice_ttl_ms"`
	DeleteDelayMs    int    `json:"deleteDelayMs" toml:"delete_delay_ms"`
}

const DefaultStorageKey = "cuteTodoTasks"

func Default() Config {
	return Config{
		DBPath:           filepath.Join(DataDir(), "tasks.db"),
		StorageKey:       DefaultStorageKey,
		HooksDir:         filepath.Join(UserHome(), ".config", "cute-todo", "hooks"),
		ExportDir:        "",
		LogFile:          "",
		Debug:            false,
		SearchDebounceMs: 300,
		NoticeTTLMs:      3000,
		DeleteDelayMs:    300,
	}
}

// Load reads path into out. Files ending in .toml are decoded as TOML,
// anything else as JSON. Zero values in the file keep the defaults already in out.
func Load(path string, out *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var c Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(b), &c); err != nil {
			return err
		}
	} else if err := json.Unmarshal(b, &c); err != nil {
		return err
	}
	mergeDefaults(&c, *out)
	*out = c
	return nil
}

func mergeDefaults(c *Config, def Config) {
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.StorageKey == "" {
		c.StorageKey = def.StorageKey
	}
	if c.HooksDir == "" {
		c.HooksDir = def.HooksDir
	}
	if c.ExportDir == "" {
		c.ExportDir = def.ExportDir
	}
	if c.LogFile == "" {
		c.LogFile = def.LogFile
	}
	if c.SearchDebounceMs <= 0 {
		c.SearchDebounceMs = def.SearchDebounceMs
	}
	if c.NoticeTTLMs <= 0 {
		c.NoticeTTLMs = def.NoticeTTLMs
	}
	if c.DeleteDelayMs < 0 {
		c.DeleteDelayMs = def.DeleteDelayMs
	}
}

func Save(path string, c Config) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return toml.NewEncoder(f).Encode(c)
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func (c Config) SearchDebounce() time.Duration { return time.Duration(c.SearchDebounceMs) * time.Millisecond }
func (c Config) NoticeTTL() time.Duration      { return time.Duration(c.NoticeTTLMs) * time.Millisecond }
func (c Config) DeleteDelay() time.Duration    { return time.Duration(c.DeleteDelayMs) * time.Millisecond }

// ExportRoot is where reports and archives land when no path is given.
func (c Config) ExportRoot() string {
	if c.ExportDir == "" {
		return "."
	}
	return c.ExportDir
}

func UserHome() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	if runtime.GOOS == "windows" {
		if h := os.Getenv("USERPROFILE"); h != "" {
			return h
		}
	}
	return "."
}

// DataDir returns the per-user directory holding the task database.
func DataDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(UserHome(), "Library", "Application Support", "cute-todo")
	case "windows":
		if p := os.Getenv("APPDATA"); p != "" {
			return filepath.Join(p, "cute-todo")
		}
	}
	if x := os.Getenv("XDG_DATA_HOME"); x != "" {
		return filepath.Join(x, "cute-todo")
	}
	return filepath.Join(UserHome(), ".local", "share", "cute-todo")
}

func EnsureDir(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}
