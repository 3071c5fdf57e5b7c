package main

import (
	"errors"

	"github.com/mlandis/reftrack/internal/config"
	"github.com/mlandis/reftrack/internal/registry"
	"github.com/mlandis/reftrack/internal/store"
)

// repoState bundles the open repository: its config, its snapshot
// store and the registry rebuilt from it.
type repoState struct {
	root  string
	cfg   *config.Config
	store *store.Store
	reg   *registry.Registry
}

// mustOpenRepo locates the repository, loads its config and rebuilds
// the registry from the snapshot. Exits with an appropriate code on
// failure.
func mustOpenRepo() *repoState {
	start, err := startDir()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	root, err := config.FindRepository(start)
	if err != nil {
		if errors.Is(err, config.ErrNotRepository) {
			exitWithError(ExitConfigError, "not in a reftrack repository (run 'rt init')")
		}
		exitWithError(ExitError, "finding repository: %v", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	st, err := store.Open(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening store: %v", err)
	}

	reg, err := st.Load(cfg.Capacity)
	if err != nil {
		st.Close()
		exitWithError(ExitDataError, "loading registry: %v", err)
	}

	return &repoState{root: root, cfg: cfg, store: st, reg: reg}
}

// save writes the registry back to the snapshot store.
func (s *repoState) save() {
	if err := s.store.Save(s.reg); err != nil {
		s.store.Close()
		exitWithError(ExitError, "saving registry: %v", err)
	}
}

// close releases the snapshot store.
func (s *repoState) close() {
	s.store.Close()
}
