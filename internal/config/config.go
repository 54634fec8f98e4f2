// Package config handles Clarion's configuration file and environment
// overrides. Configuration lives at ~/.clarion/config.yaml; every value
// has a working default so the file is optional, and API keys normally
// arrive via environment variables rather than the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ClarionDir is the per-user directory holding config and data.
const ClarionDir = ".clarion"

// ConfigFile is the config filename inside ClarionDir.
const ConfigFile = "config.yaml"

// ProviderConfig holds the connection settings for one LLM backend.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

// Config models config.yaml plus environment overrides.
type Config struct {
	// DataDir is where sessions, projects, and workflow runs persist.
	DataDir string `yaml:"data_dir,omitempty"`
	// Store selects the session backend: "sqlite" or "file".
	Store string `yaml:"store,omitempty"`

	Qwen      ProviderConfig `yaml:"qwen,omitempty"`
	DeepSeek  ProviderConfig `yaml:"deepseek,omitempty"`
	OpenAI    ProviderConfig `yaml:"openai,omitempty"`
	Anthropic ProviderConfig `yaml:"anthropic,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Store:   "sqlite",
		Qwen: ProviderConfig{
			BaseURL: "https://dashscope.aliyuncs.com/compatible-mode",
			Model:   "qwen-plus",
		},
		DeepSeek: ProviderConfig{
			BaseURL: "https://api.deepseek.com",
			Model:   "deepseek-chat",
		},
		OpenAI: ProviderConfig{
			BaseURL: "https://api.openai.com",
			Model:   "gpt-4o-mini",
		},
		Anthropic: ProviderConfig{
			BaseURL: "https://api.anthropic.com",
			Model:   "claude-3-5-sonnet-20240620",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ClarionDir
	}
	return filepath.Join(home, ClarionDir)
}

// DefaultPath returns the expected location of config.yaml.
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), ConfigFile)
}

// Load reads the config file at path, merges it over the defaults, and
// applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		cfg.merge(&fileCfg)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// merge copies non-empty values from other over cfg.
func (c *Config) merge(other *Config) {
	setString(&c.DataDir, other.DataDir)
	setString(&c.Store, other.Store)
	c.Qwen.merge(other.Qwen)
	c.DeepSeek.merge(other.DeepSeek)
	c.OpenAI.merge(other.OpenAI)
	c.Anthropic.merge(other.Anthropic)
}

func (p *ProviderConfig) merge(other ProviderConfig) {
	setString(&p.APIKey, other.APIKey)
	setString(&p.BaseURL, other.BaseURL)
	setString(&p.Model, other.Model)
}

// applyEnv lets environment variables win over file values. Qwen
// accepts both DASHSCOPE_API_KEY and QWEN_API_KEY, DashScope first.
func (c *Config) applyEnv() {
	setEnv(&c.Qwen.APIKey, "DASHSCOPE_API_KEY", "QWEN_API_KEY")
	setEnv(&c.Qwen.BaseURL, "QWEN_API_BASE")
	setEnv(&c.Qwen.Model, "QWEN_MODEL")

	setEnv(&c.DeepSeek.APIKey, "DEEPSEEK_API_KEY")
	setEnv(&c.DeepSeek.BaseURL, "DEEPSEEK_API_BASE")
	setEnv(&c.DeepSeek.Model, "DEEPSEEK_MODEL")

	setEnv(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setEnv(&c.OpenAI.BaseURL, "OPENAI_API_BASE")
	setEnv(&c.OpenAI.Model, "OPENAI_MODEL")

	setEnv(&c.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setEnv(&c.Anthropic.BaseURL, "ANTHROPIC_API_BASE")
	setEnv(&c.Anthropic.Model, "ANTHROPIC_MODEL")

	setEnv(&c.DataDir, "CLARION_DATA_DIR")
	setEnv(&c.Store, "CLARION_STORE")
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func setEnv(dst *string, keys ...string) {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			*dst = v
			return
		}
	}
}
