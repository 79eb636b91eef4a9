package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/nidhogg/agentmatch/internal/analyzer"
	"github.com/nidhogg/agentmatch/internal/cache"
	"github.com/nidhogg/agentmatch/internal/catalog"
	"github.com/nidhogg/agentmatch/internal/config"
	"github.com/nidhogg/agentmatch/internal/explain"
	"github.com/nidhogg/agentmatch/internal/recommend"
	"github.com/nidhogg/agentmatch/internal/scoring"
	"github.com/nidhogg/agentmatch/internal/taxonomy"
)

// app holds the wired components shared by all commands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	tax    *taxonomy.Taxonomy
	store  *catalog.Store
	cache  cache.Cache
	svc    *recommend.Service
}

// loadConfig resolves the config path from --config, then CONFIG_PATH.
func loadConfig() (*config.Config, error) {
	path := configFile
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds a development logger for debug and a production JSON
// logger at the configured level otherwise.
func newLogger(level string) (*zap.Logger, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "debug" {
		return zap.NewDevelopment()
	}
	if level == "" {
		level = "info"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	tax, err := taxonomy.Load(cfg.Taxonomy.Path)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.Catalog.Path, tax)
	if err != nil {
		return nil, err
	}
	if unknown := cat.UnknownSkills(tax); len(unknown) > 0 {
		logger.Warn("catalog uses skills the taxonomy never extracts", zap.Strings("skills", unknown))
	}
	logger.Info("agent catalog loaded",
		zap.String("path", cfg.Catalog.Path),
		zap.Int("agents", cat.Len()),
		zap.String("revision", cat.Revision()),
		zap.String("load_id", cat.LoadID()))

	engine, err := scoring.NewEngine(cfg.Scoring.Weights)
	if err != nil {
		return nil, err
	}

	c, err := cache.New(cfg.Cache.Options(), logger)
	if err != nil {
		logger.Warn("result cache unavailable, running without it", zap.Error(err))
		c = cache.Nop{}
	}

	store := catalog.NewStore(cat)
	svc := recommend.NewService(
		store,
		analyzer.New(tax),
		engine,
		explain.NewBuilder(tax, cfg.Scoring.MaxFeatures),
		c,
		logger,
	)
	return &app{cfg: cfg, logger: logger, tax: tax, store: store, cache: c, svc: svc}, nil
}

// reloadCatalog re-reads the configured catalog file against the same
// taxonomy.
func (a *app) reloadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(a.cfg.Catalog.Path, a.tax)
}

func (a *app) Close() error {
	return a.cache.Close()
}
