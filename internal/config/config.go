package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/finadvisor/internal/model"
)

// FileName is the workspace configuration file.
const FileName = "finadvisor.yaml"

// Providers accepted in llm.provider.
var Providers = []string{"openai", "groq", "ollama", "gemini"}

// Config represents the top-level finadvisor.yaml configuration.
type Config struct {
	LLM            LLMConfig            `yaml:"llm"`
	Categorization CategorizationConfig `yaml:"categorization"`
	Storage        StorageConfig        `yaml:"storage"`
	Import         ImportConfig         `yaml:"import"`
}

// LLMConfig selects the language model used for categorization and advice.
type LLMConfig struct {
	Provider     string  `yaml:"provider"`
	Model        string  `yaml:"model"`
	BaseURL      string  `yaml:"base_url,omitempty"` // overrides the provider default
	Temperature  float32 `yaml:"temperature"`        // advisor only; categorization runs at 0
	APIKeyEnv    string  `yaml:"api_key_env"`
	MaxToolSteps int     `yaml:"max_tool_steps"`
}

var providerDefaults = map[string]LLMConfig{
	"openai": {Model: "gpt-4o-mini", APIKeyEnv: "OPENAI_API_KEY"},
	"groq":   {Model: "llama-3.3-70b-versatile", APIKeyEnv: "GROQ_API_KEY"},
	"ollama": {Model: "llama3.1"},
	"gemini": {Model: "gemini-2.0-flash", APIKeyEnv: "GEMINI_API_KEY"},
}

// UseProvider switches to provider with its default model and key variable.
// Other settings are kept.
func (c *LLMConfig) UseProvider(provider string) error {
	d, ok := providerDefaults[provider]
	if !ok {
		return fmt.Errorf("unknown llm provider %q: must be one of %v", provider, Providers)
	}
	c.Provider = provider
	c.Model = d.Model
	c.APIKeyEnv = d.APIKeyEnv
	c.BaseURL = ""
	return nil
}

// APIKey reads the key from the environment variable named by APIKeyEnv.
func (c LLMConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}

// KeywordRule assigns Category to any description containing one of Keywords.
type KeywordRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// CategorizationConfig controls the categorizer.
type CategorizationConfig struct {
	Categories        []string      `yaml:"categories"`
	Rules             []KeywordRule `yaml:"rules,omitempty"`
	Concurrency       int           `yaml:"concurrency"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	FuzzyThreshold    int           `yaml:"fuzzy_threshold"` // max edit distance when snapping answers
}

// StorageConfig locates the transaction database.
type StorageConfig struct {
	Path string `yaml:"path"` // relative to the workspace
}

// ImportConfig locates the drop folder for bank exports.
type ImportConfig struct {
	Dir          string `yaml:"dir"`
	ProcessedDir string `yaml:"processed_dir"`
}

// Load reads a finadvisor.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// LoadEnv loads dir/.env into the process environment when it exists.
// Variables already set are not overridden.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:     "groq",
			Model:        "llama-3.3-70b-versatile",
			Temperature:  0.3,
			APIKeyEnv:    "GROQ_API_KEY",
			MaxToolSteps: 10,
		},
		Categorization: CategorizationConfig{
			Categories:        model.DefaultCategories(),
			Rules:             DefaultRules(),
			Concurrency:       4,
			RequestsPerSecond: 2,
			FuzzyThreshold:    3,
		},
		Storage: StorageConfig{
			Path: "data/finadvisor.db",
		},
		Import: ImportConfig{
			Dir:          "import",
			ProcessedDir: "import/processed",
		},
	}
}

// DefaultRules returns keyword rules for merchants that never need a model
// call.
func DefaultRules() []KeywordRule {
	return []KeywordRule{
		{Category: model.CategoryIncome, Keywords: []string{"PAYROLL", "DIRECT DEP", "SALARY"}},
		{Category: model.CategorySubscriptions, Keywords: []string{"NETFLIX", "SPOTIFY", "HULU"}},
		{Category: model.CategoryTransport, Keywords: []string{"UBER", "LYFT"}},
		{Category: model.CategoryGroceries, Keywords: []string{"WHOLE FOODS", "TRADER JOE", "KROGER"}},
	}
}

// Validate reports every problem with cfg at once.
func (c *Config) Validate() error {
	var errs []error

	known := false
	for _, p := range Providers {
		if c.LLM.Provider == p {
			known = true
		}
	}
	if !known {
		errs = append(errs, fmt.Errorf("llm.provider %q: must be one of %v", c.LLM.Provider, Providers))
	}
	if c.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model is required"))
	}
	if c.LLM.MaxToolSteps < 1 {
		errs = append(errs, fmt.Errorf("llm.max_tool_steps %d: must be at least 1", c.LLM.MaxToolSteps))
	}

	cats := map[string]bool{}
	for _, name := range c.Categorization.Categories {
		cats[name] = true
	}
	if !cats[model.CategoryOther] {
		errs = append(errs, fmt.Errorf("categorization.categories must include %q", model.CategoryOther))
	}
	for i, r := range c.Categorization.Rules {
		if !cats[r.Category] {
			errs = append(errs, fmt.Errorf("categorization.rules[%d]: unknown category %q", i, r.Category))
		}
		if len(r.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("categorization.rules[%d]: no keywords", i))
		}
	}
	if c.Categorization.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("categorization.concurrency %d: must be at least 1", c.Categorization.Concurrency))
	}
	if c.Categorization.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("categorization.requests_per_second %v: must not be negative", c.Categorization.RequestsPerSecond))
	}

	if c.Storage.Path == "" {
		errs = append(errs, errors.New("storage.path is required"))
	}
	if c.Import.Dir == "" || c.Import.ProcessedDir == "" {
		errs = append(errs, errors.New("import.dir and import.processed_dir are required"))
	}
	return errors.Join(errs...)
}
