package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	GitHub struct {
		Token string `yaml:"token"`
	} `yaml:"github"`
	AI struct {
		APIKey    string `yaml:"api_key"`
		Model     string `yaml:"model"`      // tuned / primary generation model
		BaseModel string `yaml:"base_model"` // "before" model for comparisons
	} `yaml:"ai"`
	Collect struct {
		Languages []string `yaml:"languages"`
		MinStars  int      `yaml:"min_stars"`
		MaxStars  int      `yaml:"max_stars"`
	} `yaml:"collect"`
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := &Config{}
	applyDefaults(cfg)

	// 2. Load YAML config; a missing file means defaults + env only
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if apiKey := os.Getenv("READMEKIT_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if model := os.Getenv("READMEKIT_MODEL"); model != "" {
		cfg.AI.Model = model
	}

	if len(cfg.Collect.Languages) == 0 {
		return nil, fmt.Errorf("config %s: collect.languages must not be empty", path)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	cfg.AI.Model = "gemini-2.5-flash"
	cfg.AI.BaseModel = "gemini-2.0-flash-lite"
	cfg.Collect.Languages = []string{
		"Python", "JavaScript", "TypeScript", "Go", "Rust",
		"Java", "C++", "Ruby", "PHP", "Swift",
	}
	cfg.Collect.MinStars = 10
	cfg.Collect.MaxStars = 5000
}
