package cmd

import (
	"fmt"
	"html/template"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/publist/publist/internal/config"
	"github.com/publist/publist/internal/db"
	"github.com/publist/publist/internal/loader"
	"github.com/publist/publist/internal/loadlog"
	"github.com/publist/publist/internal/render"
	"github.com/publist/publist/internal/state"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `publist init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds a production zap logger writing to stderr at level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.DisableStacktrace = lvl > zapcore.DebugLevel
	return zcfg.Build()
}

// openLoadLog opens the load log database. An empty db_path keeps the log
// in memory for the lifetime of the process.
func openLoadLog(cfg *config.Config) (*db.DB, *loadlog.Store, error) {
	var (
		database *db.DB
		err      error
	)
	if cfg.DBPath == "" {
		database, err = db.OpenMemory()
	} else {
		database, err = db.Open(cfg.DBPath)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening load log: %w", err)
	}
	return database, loadlog.NewStore(database), nil
}

func newController(cfg *config.Config, loads *loadlog.Store) *state.Controller {
	opts := []state.Option{state.WithLogger(logger)}
	if loads != nil {
		opts = append(opts, state.WithRecorder(loads))
	}
	return state.New(loader.New(cfg.Source, cfg.FetchTimeout), opts...)
}

// renderIntro renders the configured intro Markdown file, if any.
func renderIntro(r *render.Renderer, path string) (template.HTML, error) {
	if path == "" {
		return "", nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading intro file: %w", err)
	}
	return r.Markdown(src)
}
