package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Simplici0/plise/internal/pricebook"
	"github.com/Simplici0/plise/internal/pricing"
)

const (
	envPrefix = "PLISE_"

	DefaultFile = "plise.yaml"

	StoreFile   = "file"
	StoreSQLite = "sqlite"

	defaultPort     = "8080"
	defaultDBPath   = "./plise.db"
	defaultReport   = "reports"
	defaultCompany  = "PLISE"
	defaultCurrency = "TL"
)

// Config holds application configuration. Sources, lowest priority first:
// built-in defaults, the YAML file, a local .env file and the environment
// (PLISE_ prefix, "__" separates nested keys, e.g. PLISE_STORE__DRIVER).
type Config struct {
	Env string `koanf:"env"`

	HTTP struct {
		Port string `koanf:"port"`
	} `koanf:"http"`

	Store struct {
		Driver     string `koanf:"driver"`
		PricesPath string `koanf:"prices_path"`
		DBPath     string `koanf:"db_path"`
	} `koanf:"store"`

	Pricing struct {
		ProfitPolicy string `koanf:"profit_policy"`
	} `koanf:"pricing"`

	Report struct {
		Dir      string `koanf:"dir"`
		Company  string `koanf:"company"`
		Currency string `koanf:"currency"`
	} `koanf:"report"`

	Log struct {
		File  string `koanf:"file"`
		Level string `koanf:"level"`
	} `koanf:"log"`
}

// Load reads configuration. path names the YAML file; a missing file is not
// an error.
func Load(path string) (Config, error) {
	// Best-effort: load local dev environment variables.
	_ = loadDotEnv(".env")

	if path == "" {
		path = DefaultFile
	}

	k := koanf.New(".")
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = "dev"
	}
	if c.HTTP.Port == "" {
		c.HTTP.Port = defaultPort
	}
	if c.Store.Driver == "" {
		c.Store.Driver = StoreFile
	}
	if c.Store.PricesPath == "" {
		c.Store.PricesPath = pricebook.DefaultPath()
	}
	if c.Store.DBPath == "" {
		c.Store.DBPath = defaultDBPath
	}
	if c.Report.Dir == "" {
		c.Report.Dir = defaultReport
	}
	if c.Report.Company == "" {
		c.Report.Company = defaultCompany
	}
	if c.Report.Currency == "" {
		c.Report.Currency = defaultCurrency
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
		if c.IsDev() {
			c.Log.Level = "debug"
		}
	}
}

// Validate checks values that have no safe fallback.
func (c Config) Validate() error {
	if c.Store.Driver != StoreFile && c.Store.Driver != StoreSQLite {
		return fmt.Errorf("store.driver must be %q or %q, got %q", StoreFile, StoreSQLite, c.Store.Driver)
	}
	if _, err := pricing.ParseProfitPolicy(c.Pricing.ProfitPolicy); err != nil {
		return fmt.Errorf("pricing.profit_policy: %w", err)
	}
	return nil
}

// ProfitPolicy returns the configured policy. Validate has already checked it.
func (c Config) ProfitPolicy() pricing.ProfitPolicy {
	p, _ := pricing.ParseProfitPolicy(c.Pricing.ProfitPolicy)
	return p
}

// IsDev reports whether the application runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
