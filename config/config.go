package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment override, e.g. KRITO_API_PORT.
	EnvPrefix = "KRITO"
	homeDir   = ".krito"

	dotEnvFile = ".env"
)

// Config stores all configuration of the application.
type Config struct {
	PackageManager    string   `mapstructure:"package_manager"`
	FrontendGenerator string   `mapstructure:"frontend_generator"`
	FrontendTemplate  string   `mapstructure:"frontend_template"`
	GeneratorArgs     []string `mapstructure:"generator_args"`
	APIPort           int      `mapstructure:"api_port"`
	MongoURI          string   `mapstructure:"mongo_uri"`
	DatabaseName      string   `mapstructure:"database_name"`
	MinNodeVersion    string   `mapstructure:"min_node_version"`
	LogDir            string   `mapstructure:"log_dir"`

	// Warnings collects non-fatal problems found while loading.
	Warnings []string `mapstructure:"-"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		PackageManager:    "npm",
		FrontendGenerator: "vite@latest",
		FrontendTemplate:  "react",
		GeneratorArgs:     []string{"--no-interactive"},
		APIPort:           5000,
		MongoURI:          "mongodb://localhost:27017",
		DatabaseName:      "krito",
		MinNodeVersion:    "18.0.0",
		LogDir:            defaultLogDir(),
	}
}

func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", homeDir)
	}
	return filepath.Join(home, homeDir)
}

// DefaultConfigPath returns ~/.krito/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(defaultLogDir(), "config.yaml")
}

// LoadConfig reads configuration from defaults, an optional YAML file, the
// KRITO_* keys of a .env file in the working directory and KRITO_* environment
// variables, in increasing order of precedence. An empty configPath looks for
// ~/.krito/config.yaml and ./krito.yaml; an explicit path must exist. The
// process environment is never modified.
func LoadConfig(configPath string) (*Config, error) {
	var warnings []string
	dotenv, err := readDotEnv(dotEnvFile)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("ignoring %s: %v", dotEnvFile, err))
	}

	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("package_manager", def.PackageManager)
	v.SetDefault("frontend_generator", def.FrontendGenerator)
	v.SetDefault("frontend_template", def.FrontendTemplate)
	v.SetDefault("generator_args", def.GeneratorArgs)
	v.SetDefault("api_port", def.APIPort)
	v.SetDefault("mongo_uri", def.MongoURI)
	v.SetDefault("database_name", def.DatabaseName)
	v.SetDefault("min_node_version", def.MinNodeVersion)
	v.SetDefault("log_dir", def.LogDir)

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	if len(dotenv) > 0 {
		if err := v.MergeConfigMap(dotenv); err != nil {
			return nil, fmt.Errorf("error merging %s: %w", dotEnvFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Warnings = warnings
	return &cfg, nil
}

// readDotEnv returns the KRITO_* keys of path as config keys, e.g.
// KRITO_API_PORT becomes api_port. A missing file yields no keys.
func readDotEnv(path string) (map[string]interface{}, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	prefix := EnvPrefix + "_"
	keys := make(map[string]interface{})
	for k, val := range values {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		keys[strings.ToLower(strings.TrimPrefix(k, prefix))] = val
	}
	return keys, nil
}

func findConfigFile() string {
	for _, p := range []string{DefaultConfigPath(), "krito.yaml"} {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Validate rejects values that would produce a broken project.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PackageManager) == "" {
		return errors.New("package_manager must not be empty")
	}
	if strings.TrimSpace(c.FrontendGenerator) == "" {
		return errors.New("frontend_generator must not be empty")
	}
	if c.APIPort < 1 || c.APIPort > 65535 {
		return fmt.Errorf("api_port %d is out of range", c.APIPort)
	}
	if strings.TrimSpace(c.DatabaseName) == "" {
		return errors.New("database_name must not be empty")
	}
	if _, err := semver.NewVersion(c.MinNodeVersion); err != nil {
		return fmt.Errorf("min_node_version %q is not a valid version: %w", c.MinNodeVersion, err)
	}
	return nil
}

// APIURL is the address the generated frontend uses to reach the backend.
func (c *Config) APIURL() string {
	return fmt.Sprintf("http://localhost:%d", c.APIPort)
}

// DatabaseURI is the full connection string written to the backend .env.
func (c *Config) DatabaseURI() string {
	return strings.TrimRight(c.MongoURI, "/") + "/" + c.DatabaseName
}
