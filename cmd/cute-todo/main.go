package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"cute-todo/internal/config"
	"cute-todo/internal/hooks"
	"cute-todo/internal/logging"
	"cute-todo/internal/report"
	"cute-todo/internal/storage"
	"cute-todo/internal/tasks"
	"cute-todo/internal/tui"
	"cute-todo/internal/version"
	"cute-todo/internal/zipper"
)

func main() {
	var (
		cfgPath      string
		dbPath       string
		hooksDir     string
		exportDir    string
		logFile      string
		exportZip    string
		importZip    string
		exportReport string
		filterArg    string
		sortArg      string
		searchArg    string
		restore      bool
		debug        bool
		showVersion  bool
	)

	flag.StringVar(&cfgPath, "config", filepath.Join(config.UserHome(), ".config", "cute-todo", "config.json"), "config file path (.json or .toml)")
	flag.StringVar(&dbPath, "db", "", "sqlite database path (overrides config)")
	flag.StringVar(&hooksDir, "hooks-dir", "", "directory containing JS hook files")
	flag.StringVar(&exportDir, "export-dir", "", "directory for reports written from the TUI")
	flag.StringVar(&logFile, "log-file", "", "write logs to this file")
	flag.StringVar(&exportZip, "export", "", "batch export: write all tasks to <zip-path>")
	flag.StringVar(&importZip, "import", "", "batch import: merge tasks from <zip-path>")
	flag.StringVar(&exportReport, "export-report", "", "write a report (.md, .csv, .json, .pdf) of the visible tasks")
	flag.StringVar(&filterArg, "filter", "all", "initial filter: all | completed | pending | today")
	flag.StringVar(&sortArg, "sort", "default", "initial sort: default | date-asc | date-desc | name-asc")
	flag.StringVar(&searchArg, "search", "", "initial search term")
	flag.BoolVar(&restore, "restore", false, "pick a database backup to restore")
	flag.BoolVar(&debug, "debug", false, "log at debug level")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.String())
		return
	}

	cfg := config.Default()
	if err := config.Load(cfgPath, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("failed to load config", "path", cfgPath, "err", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if hooksDir != "" {
		cfg.HooksDir = hooksDir
	}
	if exportDir != "" {
		cfg.ExportDir = exportDir
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if debug {
		cfg.Debug = true
	}

	logger, closeLog, err := logging.New(cfg)
	if err != nil {
		log.Fatal("logging", "err", err)
	}
	defer closeLog()
	logger.Info("starting", "version", version.String(), "db", cfg.DBPath)

	if restore {
		runRestore(cfg)
		return
	}

	filter, err := tasks.ParseFilter(filterArg)
	if err != nil {
		log.Fatal("invalid --filter", "err", err)
	}
	sortMode, err := tasks.ParseSort(sortArg)
	if err != nil {
		log.Fatal("invalid --sort", "err", err)
	}

	kv, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal("open database", "path", cfg.DBPath, "err", err)
	}
	defer kv.Close()
	logger.Debug("database open", "path", kv.Path())
	adapter, err := storage.NewAdapter(kv, cfg.StorageKey, logger)
	if err != nil {
		log.Fatal("storage", "err", err)
	}
	list, loadErr := adapter.Load()
	if loadErr != nil {
		logger.Warn("stored tasks unusable, starting empty", "err", loadErr)
	}
	store := tasks.NewStore(adapter, tasks.WithLogger(logger.WithPrefix("store")))
	store.Load(list)
	store.SetFilter(filter)
	store.SetSort(sortMode)
	store.SetSearch(searchArg)

	// Batch operations
	switch {
	case exportZip != "":
		if err := zipper.Export(store.All(), exportZip); err != nil {
			log.Fatal("export failed", "err", err)
		}
		fmt.Printf("exported %d tasks -> %s\n", store.Len(), exportZip)
		return
	case importZip != "":
		m, in, err := zipper.Import(importZip)
		if err != nil {
			log.Fatal("import failed", "err", err)
		}
		var saveErr error
		unsub := store.Subscribe(func(ev tasks.Event) { saveErr = ev.Err })
		n := store.Import(in)
		unsub()
		if saveErr != nil {
			log.Fatal("import failed", "err", saveErr)
		}
		fmt.Printf("imported %d of %d tasks from %s (exported %s)\n", n, len(in), importZip, m.ExportedAt.Local().Format(time.RFC3339))
		return
	case exportReport != "":
		if err := report.WriteFile(exportReport, store.Visible(), store.Today(), nil); err != nil {
			log.Fatal("report failed", "err", err)
		}
		fmt.Printf("wrote %d tasks -> %s\n", len(store.Visible()), exportReport)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		printList(os.Stdout, store)
		return
	}

	env, err := hooks.LoadDir(cfg.HooksDir, logger)
	if err != nil {
		logger.Warn("hooks disabled", "err", err)
		env = nil
	}
	model := tui.New(tui.Options{
		Config:  cfg,
		Store:   store,
		Hooks:   env,
		Logger:  logger,
		LoadErr: loadErr,
		Backup: func() (string, error) {
			return kv.Snapshot(storage.BackupSuffix(time.Now()))
		},
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Fatal("tui error", "err", err)
	}
}

// printList writes the visible tasks as tab separated lines for pipes.
func printList(w io.Writer, store *tasks.Store) {
	visible := store.Visible()
	fmt.Fprintf(w, "%d tasks\n", len(visible))
	for _, t := range visible {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(w, "%d\t[%s]\t%s\t%s\n", t.ID, done, t.DueDate, tasks.DisplayText(t.Text, 0))
	}
}

func runRestore(cfg config.Config) {
	infos, err := storage.ListBackups(cfg.DBPath)
	if err != nil {
		log.Fatal("list backups", "err", err)
	}
	if len(infos) == 0 {
		fmt.Printf("no backups found next to %s\n", cfg.DBPath)
		return
	}
	final, err := tea.NewProgram(tui.NewRestore(infos, cfg.DBPath)).Run()
	if err != nil {
		log.Fatal("restore ui", "err", err)
	}
	suffix := final.(tui.RestoreModel).Selected()
	if suffix == "" {
		return
	}
	if err := storage.RestoreFromBackup(cfg.DBPath, suffix); err != nil {
		log.Fatal("restore failed", "err", err)
	}
	fmt.Printf("restored %s from backup %s\n", cfg.DBPath, suffix)
}
