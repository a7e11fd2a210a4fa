package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"mrpost/internal/adapter/cli"
	"mrpost/internal/adapter/git"
	"mrpost/internal/adapter/glab"
	"mrpost/internal/adapter/observability"
	"mrpost/internal/adapter/store/sqlite"
	"mrpost/internal/config"
	"mrpost/internal/usecase/publish"
	"mrpost/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "mrpost",
		EnvPrefix:   "MRPOST",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger := buildLogger(cfg.Observability)

	// Resolve the default project path: explicit config wins, otherwise the
	// origin remote of the local repository. Failure is non-fatal; glab can
	// still detect the project from the working directory.
	defaultRepo := cfg.GitLab.Repo
	if defaultRepo == "" {
		repoDir := cfg.Git.RepositoryDir
		if repoDir == "" {
			repoDir = "."
		}
		detected, err := git.NewEngine(repoDir).ProjectPath()
		if err != nil {
			logger.LogWarning(ctx, "project detection from git remote failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defaultRepo = detected
		}
	}

	// Initialize the posted-comment ledger if enabled
	var ledger publish.Ledger
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				ledger = sqliteStore
				defer sqliteStore.Close()
			}
		}
	}

	newPublisher := func(project string) cli.Publisher {
		runner := &glab.ExecRunner{Binary: cfg.GitLab.Binary}
		client := glab.NewClient(runner, project)
		return publish.New(publish.Deps{
			Client: client,
			Ledger: ledger,
			Logger: logger,
			Out:    os.Stdout,
		})
	}

	root := cli.NewRootCommand(cli.Dependencies{
		NewPublisher: newPublisher,
		DefaultRepo:  defaultRepo,
		Version:      version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mrpost"))
	}
	return paths
}

// buildLogger creates the diagnostic logger based on configuration.
// Returns nil when logging is disabled; the observability logger is
// nil-receiver safe so callers never need to check.
func buildLogger(cfg config.ObservabilityConfig) *observability.Logger {
	if !cfg.Logging.Enabled {
		return nil
	}
	return observability.NewLogger(
		observability.ParseLevel(cfg.Logging.Level),
		observability.ParseFormat(cfg.Logging.Format),
		os.Stderr,
	)
}

// Compile-time interface compliance checks
var _ publish.Client = (*glab.Client)(nil)
var _ publish.Ledger = (*sqlite.Store)(nil)
var _ publish.Logger = (*observability.Logger)(nil)
var _ cli.Publisher = (*publish.Publisher)(nil)
