package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sadopc/daygrid/internal/config"
	"github.com/sadopc/daygrid/internal/logging"
	"github.com/sadopc/daygrid/internal/store"
)

// appContext holds the dependencies shared by commands. Each one is created
// on first use so that commands which never touch the database don't open it.
type appContext struct {
	configPath string
	dbPath     string

	cfg      *config.Config
	log      *zap.SugaredLogger
	store    *store.Store
	closeLog func()
}

// Config loads the layered configuration and applies flag overrides.
func (a *appContext) Config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.NewLoader(nil).Load(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	a.cfg = cfg
	return cfg, nil
}

// Logger returns the file logger, falling back to a no-op logger when the
// log file can't be opened.
func (a *appContext) Logger() *zap.SugaredLogger {
	if a.log != nil {
		return a.log
	}
	cfg, err := a.Config()
	if err != nil {
		a.log = logging.Nop()
		return a.log
	}
	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		a.log = logging.Nop()
		return a.log
	}
	a.log, a.closeLog = log, closeLog
	return a.log
}

// Store opens the database named by the config.
func (a *appContext) Store() (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	s, err := store.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	log := a.Logger()
	log.Debugw("store opened", "path", cfg.Database.Path)
	a.store = s.WithLogger(log)
	return a.store, nil
}

// Close releases all resources held by the context.
func (a *appContext) Close() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
		a.store = nil
	}
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
	return err
}
