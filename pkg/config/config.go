package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for innofeed-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values.
// Secrets (password, API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// AllowedOrigins is a comma-separated list of origins permitted by CORS.
	// Defaults to the local frontend dev server.
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"http://localhost:5173" env-separator:","`

	// LogLevel controls zap logger verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Summarizer configuration (optional - degrades to truncation fallback)
	Summarizer SummarizerConfig `yaml:"summarizer"`

	// Patents source configuration (optional - adapter is a no-op without a key)
	Patents PatentsConfig `yaml:"patents"`

	// Ingestion batch job configuration
	Ingest IngestConfig `yaml:"ingest"`
}

// DatabaseConfig holds PostgreSQL database configuration.
// Host, user and database name are mandatory; the process refuses to start
// without them.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:""`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:""`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:""`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
}

// SummarizerConfig selects and configures the summarization backend.
type SummarizerConfig struct {
	// Provider is one of "openai", "anthropic" or "none".
	Provider string `yaml:"provider" env:"SUMMARIZER_PROVIDER" env-default:"openai"`
	BaseURL  string `yaml:"base_url" env:"SUMMARIZER_BASE_URL" env-default:""`
	Model    string `yaml:"model" env:"SUMMARIZER_MODEL" env-default:"gpt-4o-mini"`
	APIKey   string `yaml:"-" env:"SUMMARIZER_API_KEY"` // Secret - not in YAML
}

// IsAvailable returns true if an API-backed summarizer is configured.
// Without a key the pipeline falls back to deterministic truncation.
func (c *SummarizerConfig) IsAvailable() bool {
	return c.Provider != "none" && c.APIKey != ""
}

// PatentsConfig holds SerpAPI access for the Google Patents source.
type PatentsConfig struct {
	BaseURL string `yaml:"base_url" env:"SERPAPI_BASE_URL" env-default:"https://serpapi.com/search"`
	APIKey  string `yaml:"-" env:"SERPAPI_KEY"` // Secret - not in YAML
}

// DomainMapping binds a domain name to the source-specific lookup values.
// An empty ArxivCategory or PatentQuery means that source skips the domain.
type DomainMapping struct {
	Name          string `yaml:"name"`
	ArxivCategory string `yaml:"arxiv_category"`
	PatentQuery   string `yaml:"patent_query"`
}

// IngestConfig configures the batch ingestion run.
type IngestConfig struct {
	// MaxResults caps items fetched per domain per source.
	MaxResults int `yaml:"max_results" env:"INGEST_MAX_RESULTS" env-default:"50"`

	// ArxivBaseURL is the arXiv Atom API endpoint.
	ArxivBaseURL string `yaml:"arxiv_base_url" env:"ARXIV_BASE_URL" env-default:"http://export.arxiv.org/api/query"`

	// PageDelay is the courtesy delay between successive page requests
	// against the same source.
	PageDelay time.Duration `yaml:"page_delay" env:"INGEST_PAGE_DELAY" env-default:"1s"`

	// RunTimeout bounds a whole ingestion run.
	RunTimeout time.Duration `yaml:"run_timeout" env:"INGEST_RUN_TIMEOUT" env-default:"30m"`

	// Domains maps domain names to source lookup values. When empty the
	// built-in defaults are used.
	Domains []DomainMapping `yaml:"domains"`
}

// DefaultDomainMappings reproduces the historical lookup tables. Domains
// without a mapping entry are skipped by both adapters.
func DefaultDomainMappings() []DomainMapping {
	return []DomainMapping{
		{Name: "AI", ArxivCategory: "cs.AI", PatentQuery: "artificial intelligence OR machine learning"},
		{Name: "Robotics", ArxivCategory: "cs.RO", PatentQuery: "robotics OR autonomous systems"},
		{Name: "Quantum Computing", ArxivCategory: "quant-ph", PatentQuery: "quantum computing OR quantum information"},
		{Name: "Genetics", ArxivCategory: "q-bio.GN", PatentQuery: "genetics OR genomics OR DNA"},
		{Name: "Cybersecurity", ArxivCategory: "cs.CR", PatentQuery: "cybersecurity OR network security OR encryption"},
		{Name: "Blockchain", ArxivCategory: "cs.CR", PatentQuery: "blockchain OR distributed ledger OR cryptocurrency"},
	}
}

// Load reads configuration from config.yaml with environment variable
// overrides. When config.yaml is absent, environment variables alone are
// used. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if len(cfg.Ingest.Domains) == 0 {
		cfg.Ingest.Domains = DefaultDomainMappings()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces startup invariants. Database settings are mandatory;
// summarizer and patent credentials are optional and merely select degraded
// modes when absent.
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.User == "" || c.Database.Database == "" {
		return fmt.Errorf("database configuration incomplete: PGHOST, PGUSER and PGDATABASE are required")
	}

	switch c.Summarizer.Provider {
	case "openai", "anthropic", "none":
	default:
		return fmt.Errorf("unknown summarizer provider %q", c.Summarizer.Provider)
	}

	seen := make(map[string]struct{}, len(c.Ingest.Domains))
	for _, m := range c.Ingest.Domains {
		if m.Name == "" {
			return fmt.Errorf("domain mapping with empty name")
		}
		if _, dup := seen[m.Name]; dup {
			return fmt.Errorf("duplicate domain mapping %q", m.Name)
		}
		seen[m.Name] = struct{}{}
	}

	if c.Ingest.MaxResults <= 0 {
		return fmt.Errorf("ingest max_results must be positive, got %d", c.Ingest.MaxResults)
	}

	return nil
}

// ArxivCategories returns the domain name to arXiv category lookup.
func (c *IngestConfig) ArxivCategories() map[string]string {
	out := make(map[string]string, len(c.Domains))
	for _, m := range c.Domains {
		if m.ArxivCategory != "" {
			out[m.Name] = m.ArxivCategory
		}
	}
	return out
}

// PatentQueries returns the domain name to patent search query lookup.
func (c *IngestConfig) PatentQueries() map[string]string {
	out := make(map[string]string, len(c.Domains))
	for _, m := range c.Domains {
		if m.PatentQuery != "" {
			out[m.Name] = m.PatentQuery
		}
	}
	return out
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
