package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the storeassist API configuration.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	HTTP       HTTPConfig       `yaml:"http"`
	Cache      CacheConfig      `yaml:"cache"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Knowledge  KnowledgeConfig  `yaml:"knowledge"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServiceConfig identifies the deployment.
type ServiceConfig struct {
	Name string `yaml:"name"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds the optional embedding-cache backend. Empty addrs
// disables caching entirely.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	TTLHours         int      `yaml:"ttl_hours"` // 0 = no expiry
}

// EmbeddingConfig holds embedding provider settings. Empty api_key disables
// vector retrieval; keyword retrieval still works.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// GenerationConfig holds text generation settings. Empty api_key disables
// generation; chat replies then degrade to canned text.
type GenerationConfig struct {
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	MaxTokensLimit int     `yaml:"max_tokens_limit"`
	Temperature    float32 `yaml:"temperature"`
	TimeoutSec     int     `yaml:"timeout_sec"`
}

// RetrievalConfig holds scoring and calibration settings. Thresholds and
// calibration boundaries are pointers so an explicit zero in the file is
// kept rather than replaced by the default.
type RetrievalConfig struct {
	Strategy         string   `yaml:"strategy"` // vector, keyword (default: vector)
	VectorThreshold  *float64 `yaml:"vector_threshold"`
	KeywordThreshold *float64 `yaml:"keyword_threshold"`
	TopK             int      `yaml:"top_k"`
	MaxCandidates    int      `yaml:"expansion_max_candidates"`
	VectorHigh       *float64 `yaml:"vector_confidence_high"`
	VectorMedium     *float64 `yaml:"vector_confidence_medium"`
	KeywordHigh      *float64 `yaml:"keyword_confidence_high"`
	KeywordMedium    *float64 `yaml:"keyword_confidence_medium"`
}

// KnowledgeConfig holds knowledge base settings.
type KnowledgeConfig struct {
	Path string `yaml:"path"` // ground-truth JSON; empty falls back to the built-in seed
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = "storeassist"
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 30
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "gpt-4o-mini"
	}
	if c.Generation.MaxTokensLimit <= 0 {
		c.Generation.MaxTokensLimit = 640
	}
	if c.Generation.Temperature <= 0 {
		c.Generation.Temperature = 0.2
	}
	if c.Generation.TimeoutSec <= 0 {
		c.Generation.TimeoutSec = 120
	}
	if c.Retrieval.Strategy == "" {
		c.Retrieval.Strategy = "vector"
	}
	if c.Retrieval.VectorThreshold == nil {
		c.Retrieval.VectorThreshold = floatPtr(0.25)
	}
	if c.Retrieval.KeywordThreshold == nil {
		c.Retrieval.KeywordThreshold = floatPtr(1)
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 5
	}
	if c.Retrieval.MaxCandidates <= 0 {
		c.Retrieval.MaxCandidates = 12
	}
	if c.Retrieval.VectorHigh == nil {
		c.Retrieval.VectorHigh = floatPtr(0.6)
	}
	if c.Retrieval.VectorMedium == nil {
		c.Retrieval.VectorMedium = floatPtr(0.4)
	}
	if c.Retrieval.KeywordHigh == nil {
		c.Retrieval.KeywordHigh = floatPtr(5)
	}
	if c.Retrieval.KeywordMedium == nil {
		c.Retrieval.KeywordMedium = floatPtr(2)
	}
}

func floatPtr(v float64) *float64 { return &v }

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Retrieval.Strategy {
	case "vector", "keyword":
		// ok
	default:
		return fmt.Errorf("retrieval.strategy must be \"vector\" or \"keyword\", got %q", c.Retrieval.Strategy)
	}
	if c.Retrieval.Strategy == "vector" && c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required for the vector strategy")
	}
	if *c.Retrieval.VectorHigh < *c.Retrieval.VectorMedium {
		return fmt.Errorf("retrieval.vector_confidence_high must be >= vector_confidence_medium")
	}
	if *c.Retrieval.KeywordHigh < *c.Retrieval.KeywordMedium {
		return fmt.Errorf("retrieval.keyword_confidence_high must be >= keyword_confidence_medium")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
