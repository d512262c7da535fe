package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/anchor-ui/mcp-server/pkg/catalog"
	"github.com/anchor-ui/mcp-server/pkg/config"
	"github.com/anchor-ui/mcp-server/pkg/guardrails"
	"github.com/anchor-ui/mcp-server/pkg/jsx"
	"github.com/anchor-ui/mcp-server/pkg/metadata"
	"github.com/anchor-ui/mcp-server/pkg/reference"
	"github.com/anchor-ui/mcp-server/pkg/util"
)

// app carries the resolved settings shared by every command.
type app struct {
	projectDir   string
	configFile   string
	referenceDir string
	logLevel     string
	logFormat    string

	cfg    config.Config
	logger *slog.Logger
}

func (a *app) bindFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVar(&a.projectDir, "dir", ".", "project root holding .anchor-ui/ and .env")
	f.StringVar(&a.configFile, "config", "", "config file (default <dir>/"+config.DefaultFile+")")
	f.StringVar(&a.referenceDir, "reference-dir", "", "directory of generated reference JSON files")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&a.logFormat, "log-format", "", "log format: text, json")
}

// load resolves the configuration: file, .env, environment, then flags.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(config.LoadOptions{Dir: a.projectDir, File: a.configFile})
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("reference-dir") {
		cfg.ReferenceDir = a.referenceDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.ReferenceDir = a.resolve(cfg.ReferenceDir)
	cfg.MetadataPath = a.resolve(cfg.MetadataPath)
	cfg.ToolLog = a.resolve(cfg.ToolLog)

	lc := cfg.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	a.cfg = cfg
	a.logger = util.NewLogger(lc)
	return nil
}

// resolve makes relative paths relative to the project root.
func (a *app) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.projectDir, path)
}

func (a *app) openStore() (*reference.Store, error) {
	return reference.NewStore(a.cfg.ReferenceDir,
		reference.WithExclude(a.cfg.Exclude...),
		reference.WithLogger(a.logger),
	)
}

func (a *app) metadataTable() (*metadata.Table, error) {
	table, err := metadata.Load(a.cfg.MetadataPath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("metadata loaded", "entries", table.Len(), "override", a.cfg.MetadataPath)
	return table, nil
}

func (a *app) newBuilder(store *reference.Store) (*catalog.Builder, error) {
	table, err := a.metadataTable()
	if err != nil {
		return nil, err
	}
	return catalog.NewBuilder(store, table, catalog.Options{
		DocsBaseURL:  a.cfg.DocsBaseURL,
		ImportPrefix: a.cfg.ImportPrefix,
		Logger:       a.logger,
	}), nil
}

// newQueryService opens the reference directory and builds an uncached
// query service, for one-shot commands.
func (a *app) newQueryService() (*catalog.QueryService, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	b, err := a.newBuilder(store)
	if err != nil {
		return nil, err
	}
	return catalog.NewQueryService(b), nil
}

// validators hands out one Validator per source language. With the ast
// engine they share a tree-sitter parser pool; call close when done.
type validators struct {
	engine string
	parser *jsx.Parser
	byLang map[jsx.Language]*guardrails.Validator
	logger *slog.Logger
}

func newValidators(engine string, logger *slog.Logger) (*validators, error) {
	switch engine {
	case config.EngineRegex, config.EngineAST:
	default:
		return nil, fmt.Errorf("unknown engine %q (want %q or %q)", engine, config.EngineRegex, config.EngineAST)
	}
	return &validators{engine: engine, byLang: make(map[jsx.Language]*guardrails.Validator), logger: logger}, nil
}

func (v *validators) forLanguage(lang jsx.Language) *guardrails.Validator {
	if val, ok := v.byLang[lang]; ok {
		return val
	}
	var opts []guardrails.Option
	if v.engine == config.EngineAST {
		if v.parser == nil {
			v.parser = jsx.NewParser(v.logger)
		}
		opts = append(opts, guardrails.WithEngine(jsx.NewEngine(v.parser, lang)))
	}
	val := guardrails.NewValidator(guardrails.DefaultRules(), opts...)
	v.byLang[lang] = val
	return val
}

func (v *validators) close() {
	if v.parser != nil {
		_ = v.parser.Close()
	}
}
