package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

const DefaultEntityPrompt = `You are a named-entity recognizer for text about books.
Identify every person, organization and creative work (book, novel, series) mentioned in the TEXT.

<TEXT>
%s
</TEXT>

Return a single JSON object with the key "entities", a list of objects with "text" (the exact span
as it appears in the TEXT) and "label" (one of PERSON, ORG, WORK_OF_ART).

Example JSON:
{
  "entities": [
    {"text": "Frank Herbert", "label": "PERSON"},
    {"text": "Chilton", "label": "ORG"}
  ]
}`

type GraphConfig struct {
	Backend  string `toml:"backend" yaml:"backend"`
	URI      string `toml:"uri" yaml:"uri"`
	User     string `toml:"user" yaml:"user"`
	Password string `toml:"password" yaml:"password"`
	Database string `toml:"database" yaml:"database"`
	Path     string `toml:"path" yaml:"path"`
}

type SplitterConfig struct {
	ChunkSize    int `toml:"chunk_size" yaml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap" yaml:"chunk_overlap"`
}

type NERConfig struct {
	Recognizer string `toml:"recognizer" yaml:"recognizer"`
	Prompt     string `toml:"prompt" yaml:"prompt"`
}

type CircuitBreakerConfig struct {
	Enabled          bool    `toml:"enabled" yaml:"enabled"`
	MaxRequests      uint32  `toml:"max_requests" yaml:"max_requests"`
	Interval         int     `toml:"interval" yaml:"interval"` // seconds
	Timeout          int     `toml:"timeout" yaml:"timeout"`   // seconds
	ReadyToTripRatio float64 `toml:"ready_to_trip_ratio" yaml:"ready_to_trip_ratio"`
}

type LLMConfig struct {
	Provider       string               `toml:"provider" yaml:"provider"`
	Model          string               `toml:"model" yaml:"model"`
	APIKey         string               `toml:"api_key" yaml:"api_key"`
	BaseURL        string               `toml:"base_url" yaml:"base_url"`
	CircuitBreaker CircuitBreakerConfig `toml:"circuit_breaker" yaml:"circuit_breaker"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

type ServerConfig struct {
	Port        string `toml:"port" yaml:"port"`
	MaxUploadMB int64  `toml:"max_upload_mb" yaml:"max_upload_mb"`
}

type Config struct {
	Graph    GraphConfig    `toml:"graph" yaml:"graph"`
	Splitter SplitterConfig `toml:"splitter" yaml:"splitter"`
	NER      NERConfig      `toml:"ner" yaml:"ner"`
	LLM      LLMConfig      `toml:"llm" yaml:"llm"`
	Log      LogConfig      `toml:"log" yaml:"log"`
	Server   ServerConfig   `toml:"server" yaml:"server"`
}

// Default returns a configuration that works against a local Memgraph with
// the offline pattern recognizer.
func Default() *Config {
	return &Config{
		Graph: GraphConfig{
			Backend: "memgraph",
			URI:     "bolt://localhost:7687",
			Path:    "./data/graph",
		},
		Splitter: SplitterConfig{
			ChunkSize:    1000,
			ChunkOverlap: 50,
		},
		NER: NERConfig{
			Recognizer: "pattern",
			Prompt:     DefaultEntityPrompt,
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "gpt-oss:latest",
			BaseURL:  "http://localhost:11434",
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:          true,
				MaxRequests:      1,
				Interval:         60,
				Timeout:          30,
				ReadyToTripRatio: 0.6,
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Port:        "8080",
			MaxUploadMB: 32,
		},
	}
}

// Load reads a TOML or YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to Default when it
// does not. Any other read or parse error is returned.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// ApplyEnv overrides configuration values with environment variables.
func ApplyEnv(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"GRAPH_BACKEND", &cfg.Graph.Backend},
		{"MEMGRAPH_URI", &cfg.Graph.URI},
		{"MEMGRAPH_USER", &cfg.Graph.User},
		{"MEMGRAPH_PASSWORD", &cfg.Graph.Password},
		{"GRAPH_DATABASE", &cfg.Graph.Database},
		{"GRAPH_PATH", &cfg.Graph.Path},
		{"NER_RECOGNIZER", &cfg.NER.Recognizer},
		{"LLM_PROVIDER", &cfg.LLM.Provider},
		{"LLM_MODEL", &cfg.LLM.Model},
		{"LLM_API_KEY", &cfg.LLM.APIKey},
		{"LLM_BASE_URL", &cfg.LLM.BaseURL},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"LOG_FORMAT", &cfg.Log.Format},
		{"PORT", &cfg.Server.Port},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

func (c *Config) Validate() error {
	switch c.Graph.Backend {
	case "memgraph", "neo4j":
		if c.Graph.URI == "" {
			return fmt.Errorf("%w: graph.uri is required for backend %q", ErrInvalid, c.Graph.Backend)
		}
	case "badger":
		if c.Graph.Path == "" {
			return fmt.Errorf("%w: graph.path is required for backend badger", ErrInvalid)
		}
	case "memory":
	default:
		return fmt.Errorf("%w: unknown graph backend %q", ErrInvalid, c.Graph.Backend)
	}

	switch c.NER.Recognizer {
	case "pattern", "none":
	case "llm":
		if !strings.Contains(c.NER.Prompt, "%s") {
			return fmt.Errorf("%w: ner.prompt must contain %%s for the chunk text", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown ner recognizer %q", ErrInvalid, c.NER.Recognizer)
	}

	if c.Splitter.ChunkSize <= 0 {
		return fmt.Errorf("%w: splitter.chunk_size must be positive", ErrInvalid)
	}
	if c.Splitter.ChunkOverlap < 0 || c.Splitter.ChunkOverlap >= c.Splitter.ChunkSize {
		return fmt.Errorf("%w: splitter.chunk_overlap must be in [0, chunk_size)", ErrInvalid)
	}
	return nil
}
