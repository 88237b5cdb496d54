package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/persona/pkg/persona/internalerr"
)

// Providers understood by the llm package.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config is the application configuration.
type Config struct {
	Reddit  RedditConfig  `yaml:"reddit"`
	LLM     LLMConfig     `yaml:"llm"`
	Persona PersonaConfig `yaml:"persona"`
	Paths   PathsConfig   `yaml:"paths"`
}

// RedditConfig controls the activity fetcher.
type RedditConfig struct {
	BaseURL           string  `yaml:"base_url"`
	UserAgent         string  `yaml:"user_agent"`
	MaxPosts          int     `yaml:"max_posts"`
	MaxComments       int     `yaml:"max_comments"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
}

// LLMConfig selects and tunes the text-generation backend.
type LLMConfig struct {
	Provider       string  `yaml:"provider"`
	Model          string  `yaml:"model"`
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
	MaxAttempts    int     `yaml:"max_attempts"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// PersonaConfig tunes aggregation and assembly.
type PersonaConfig struct {
	IncludeCitations bool   `yaml:"include_citations"`
	CitationPolicy   string `yaml:"citation_policy"`
	MaxCitations     int    `yaml:"max_citations"`
	PromptBudget     int    `yaml:"prompt_budget"`
	MinContentLength int    `yaml:"min_content_length"`
	Concurrency      int    `yaml:"concurrency"`
	AnalyzeSentiment bool   `yaml:"analyze_sentiment"`
}

// PathsConfig points at optional files.
type PathsConfig struct {
	OutputDir string `yaml:"output_dir"`
	DB        string `yaml:"db"`
	Taxonomy  string `yaml:"taxonomy"`
	Stoplist  string `yaml:"stoplist"`
	Lexicon   string `yaml:"lexicon"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Reddit: RedditConfig{
			BaseURL:           "https://www.reddit.com",
			UserAgent:         "persona/1.0 (profile analysis tool)",
			MaxPosts:          10,
			MaxComments:       15,
			RequestsPerSecond: 1,
			TimeoutSeconds:    30,
		},
		LLM: LLMConfig{
			Provider:       ProviderOpenAI,
			Model:          "gpt-4o-mini",
			BaseURL:        "https://api.openai.com/v1",
			MaxTokens:      1000,
			Temperature:    0.7,
			MaxAttempts:    3,
			TimeoutSeconds: 60,
		},
		Persona: PersonaConfig{
			IncludeCitations: true,
			CitationPolicy:   "overlap",
			MaxCitations:     5,
			PromptBudget:     3000,
			MinContentLength: 10,
			Concurrency:      1,
			AnalyzeSentiment: true,
		},
		Paths: PathsConfig{
			OutputDir: "./output",
		},
	}
}

// LoadConfig reads .env (if present), then the YAML file at path over the
// defaults, then environment overrides. An empty path skips the YAML step.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PERSONA_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("PERSONA_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("PERSONA_LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("PERSONA_REDDIT_USER_AGENT"); v != "" {
		c.Reddit.UserAgent = v
	}

	switch {
	case os.Getenv("PERSONA_LLM_API_KEY") != "":
		c.LLM.APIKey = os.Getenv("PERSONA_LLM_API_KEY")
	case c.LLM.APIKey != "":
		// set in the file
	case c.LLM.Provider == ProviderGemini:
		c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	default:
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

// Validate checks value ranges. It does not require credentials.
func (c *Config) Validate() error {
	var problems []string
	if c.LLM.Provider != ProviderOpenAI && c.LLM.Provider != ProviderGemini {
		problems = append(problems, fmt.Sprintf("llm.provider %q is not one of openai, gemini", c.LLM.Provider))
	}
	if c.LLM.Model == "" {
		problems = append(problems, "llm.model is required")
	}
	if c.LLM.MaxTokens <= 0 {
		problems = append(problems, "llm.max_tokens must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		problems = append(problems, "llm.temperature must be within [0, 2]")
	}
	if c.LLM.MaxAttempts < 0 {
		problems = append(problems, "llm.max_attempts must not be negative")
	}
	if c.Reddit.UserAgent == "" {
		problems = append(problems, "reddit.user_agent is required")
	}
	if c.Reddit.MaxPosts < 0 || c.Reddit.MaxComments < 0 {
		problems = append(problems, "reddit.max_posts and reddit.max_comments must not be negative")
	}
	if c.Reddit.RequestsPerSecond <= 0 {
		problems = append(problems, "reddit.requests_per_second must be positive")
	}
	if p := c.Persona.CitationPolicy; p != "first" && p != "overlap" {
		problems = append(problems, fmt.Sprintf("persona.citation_policy %q is not one of first, overlap", p))
	}
	if c.Persona.MaxCitations < 0 {
		problems = append(problems, "persona.max_citations must not be negative")
	}
	if c.Persona.PromptBudget <= 0 {
		problems = append(problems, "persona.prompt_budget must be positive")
	}
	if c.Persona.Concurrency < 1 || c.Persona.Concurrency > 6 {
		problems = append(problems, "persona.concurrency must be within [1, 6]")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// RequireCredentials reports a missing backend API key.
func (c *Config) RequireCredentials() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w: no API key for provider %s (set PERSONA_LLM_API_KEY)", internalerr.ErrInvalidConfig, c.LLM.Provider)
	}
	return nil
}
