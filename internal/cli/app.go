package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/amirbrooks/promemoria/internal/config"
	"github.com/amirbrooks/promemoria/internal/store"
)

// App is one session over a repository: it owns the in-memory state and
// writes it back only when asked to.
type App struct {
	cfg    config.Config
	repo   *store.Repository
	log    *log.Logger
	out    io.Writer
	prompt *prompter
	render renderer
	dirty  bool
}

// NewApp loads the snapshot named by cfg. A missing or unreadable snapshot
// yields the default categories; the failure is logged, not returned.
func NewApp(cfg config.Config, logger *log.Logger, in io.Reader, out io.Writer) *App {
	repo, err := store.Load(cfg.StoreFile)
	if err != nil {
		logger.Warn("snapshot unavailable, starting from defaults", "path", cfg.StoreFile, "err", err)
	} else {
		logger.Debug("snapshot loaded", "path", cfg.StoreFile, "tasks", repo.Len())
	}
	return newAppWithRepo(cfg, logger, repo, in, out)
}

func newAppWithRepo(cfg config.Config, logger *log.Logger, repo *store.Repository, in io.Reader, out io.Writer) *App {
	return &App{
		cfg:    cfg,
		repo:   repo,
		log:    logger,
		out:    out,
		prompt: newPrompter(in, out, cfg.MaxAttempts),
		render: newRenderer(cfg.Color),
	}
}

// Repository exposes the session state.
func (a *App) Repository() *store.Repository {
	return a.repo
}

// Save writes the repository to the configured snapshot file.
func (a *App) Save() error {
	if err := store.Save(a.cfg.StoreFile, a.repo); err != nil {
		a.log.Error("save failed", "path", a.cfg.StoreFile, "err", err)
		return err
	}
	a.dirty = false
	a.log.Info("snapshot saved", "path", a.cfg.StoreFile, "tasks", a.repo.Len())
	return nil
}

// changed records a mutation and saves right away when configured to.
func (a *App) changed() error {
	a.dirty = true
	if !a.cfg.SaveAfterChange {
		return nil
	}
	if err := a.Save(); err != nil {
		return fmt.Errorf("save after change: %w", err)
	}
	return nil
}
