// Package config loads server settings.
//
// Sources, lowest priority first: built-in defaults, .anchor-ui/config.yaml,
// a .env file, ANCHOR_UI_* environment variables. Command-line flags are
// applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/anchor-ui/mcp-server/pkg/util"
)

const (
	// DefaultFile is the project config path relative to the project root.
	DefaultFile = ".anchor-ui/config.yaml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "ANCHOR_UI_"

	EngineRegex = "regex"
	EngineAST   = "ast"
)

// Config holds every setting of the server and CLI.
type Config struct {
	ReferenceDir string   `yaml:"reference_dir"`
	MetadataPath string   `yaml:"metadata_path"`
	DocsBaseURL  string   `yaml:"docs_base_url"`
	ImportPrefix string   `yaml:"import_prefix"`
	Exclude      []string `yaml:"exclude"`
	Engine       string   `yaml:"engine"`
	CacheSize    int      `yaml:"cache_size"`
	Watch        bool     `yaml:"watch"`
	LogLevel     string   `yaml:"log_level"`
	LogFormat    string   `yaml:"log_format"`
	ToolLog      string   `yaml:"tool_log"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ReferenceDir: "docs/reference/generated",
		DocsBaseURL:  "https://anchorui.com/react/components",
		ImportPrefix: "@anchor-ui/react",
		Engine:       EngineRegex,
		CacheSize:    64,
		LogLevel:     string(util.LevelInfo),
		LogFormat:    string(util.FormatText),
	}
}

// LoadOptions locates the config sources.
type LoadOptions struct {
	// Dir is the project root holding .anchor-ui/ and .env. Empty means ".".
	Dir string
	// File overrides the config file path. Unlike the default file, an
	// explicit file must exist.
	File string
	// LookupEnv reads the environment. Nil means os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// Load merges every source into a Config. It does not validate the result.
func Load(opts LoadOptions) (Config, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}

	cfg := Default()

	path, required := opts.File, true
	if path == "" {
		path, required = filepath.Join(opts.Dir, DefaultFile), false
	}
	if err := cfg.mergeFile(path, required); err != nil {
		return Config{}, err
	}

	dotenv, err := readDotenv(filepath.Join(opts.Dir, ".env"))
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := opts.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.mergeEnv(lookup); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	// Keys absent from the file keep their current values.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	str("REFERENCE_DIR", &c.ReferenceDir)
	str("METADATA_PATH", &c.MetadataPath)
	str("DOCS_BASE_URL", &c.DocsBaseURL)
	str("IMPORT_PREFIX", &c.ImportPrefix)
	str("ENGINE", &c.Engine)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("TOOL_LOG", &c.ToolLog)

	if v, ok := lookup(EnvPrefix + "EXCLUDE"); ok {
		c.Exclude = splitList(v)
	}

	var errs []error
	if v, ok := lookup(EnvPrefix + "CACHE_SIZE"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCACHE_SIZE: %w", EnvPrefix, err))
		} else {
			c.CacheSize = n
		}
	}
	if v, ok := lookup(EnvPrefix + "WATCH"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sWATCH: %w", EnvPrefix, err))
		} else {
			c.Watch = b
		}
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.ReferenceDir == "" {
		errs = append(errs, errors.New("reference_dir is required"))
	}
	if c.Engine != EngineRegex && c.Engine != EngineAST {
		errs = append(errs, fmt.Errorf("engine must be %q or %q, got %q", EngineRegex, EngineAST, c.Engine))
	}
	if c.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize))
	}
	if !util.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log_level %q", c.LogLevel))
	}
	if !util.ValidFormat(c.LogFormat) {
		errs = append(errs, fmt.Errorf("invalid log_format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// LoggerConfig converts the logging settings.
func (c Config) LoggerConfig() util.LoggerConfig {
	cfg := util.DefaultLoggerConfig()
	cfg.Level = util.LogLevel(strings.ToLower(c.LogLevel))
	cfg.Format = util.LogFormat(strings.ToLower(c.LogFormat))
	return cfg
}
