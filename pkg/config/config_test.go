package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			User:     "innofeed",
			Database: "innofeed",
		},
		Summarizer: SummarizerConfig{Provider: "openai"},
		Ingest: IngestConfig{
			MaxResults: 50,
			Domains:    DefaultDomainMappings(),
		},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_MissingDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Database.User = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Database.Database = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Summarizer.Provider = "cohere"
	assert.ErrorContains(t, cfg.Validate(), "unknown summarizer provider")
}

func TestValidate_DomainMappings(t *testing.T) {
	cfg := validConfig()
	cfg.Ingest.Domains = append(cfg.Ingest.Domains, DomainMapping{Name: "AI"})
	assert.ErrorContains(t, cfg.Validate(), "duplicate domain mapping")

	cfg = validConfig()
	cfg.Ingest.Domains = []DomainMapping{{Name: ""}}
	assert.ErrorContains(t, cfg.Validate(), "empty name")
}

func TestValidate_MaxResults(t *testing.T) {
	cfg := validConfig()
	cfg.Ingest.MaxResults = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGUSER", "svc")
	t.Setenv("PGPASSWORD", "secret")
	t.Setenv("PGDATABASE", "innofeed")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173,https://app.example.com")

	cfg, err := Load("1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.AllowedOrigins)

	// Defaults fill the gaps
	assert.Equal(t, 50, cfg.Ingest.MaxResults)
	assert.Equal(t, time.Second, cfg.Ingest.PageDelay)
	assert.Len(t, cfg.Ingest.Domains, 6)
}

func TestDefaultDomainMappings(t *testing.T) {
	mappings := DefaultDomainMappings()
	require.Len(t, mappings, 6)

	cfg := IngestConfig{Domains: mappings}
	categories := cfg.ArxivCategories()
	queries := cfg.PatentQueries()

	assert.Equal(t, "cs.AI", categories["AI"])
	assert.Equal(t, "quant-ph", categories["Quantum Computing"])
	// Blockchain shares the cs.CR category with Cybersecurity
	assert.Equal(t, "cs.CR", categories["Blockchain"])
	assert.Contains(t, queries["Genetics"], "genomics")
}

func TestLookupHelpers_SkipEmpty(t *testing.T) {
	cfg := IngestConfig{Domains: []DomainMapping{
		{Name: "AI", ArxivCategory: "cs.AI"},
		{Name: "Patents Only", PatentQuery: "widgets"},
	}}

	categories := cfg.ArxivCategories()
	queries := cfg.PatentQueries()

	_, ok := categories["Patents Only"]
	assert.False(t, ok, "domain without category must be absent from lookup")
	_, ok = queries["AI"]
	assert.False(t, ok, "domain without query must be absent from lookup")
}

func TestConnectionString(t *testing.T) {
	c := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p",
		Database: "d", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=u password=p dbname=d sslmode=disable",
		c.ConnectionString())
}

func TestSummarizerIsAvailable(t *testing.T) {
	assert.False(t, (&SummarizerConfig{Provider: "openai"}).IsAvailable())
	assert.False(t, (&SummarizerConfig{Provider: "none", APIKey: "k"}).IsAvailable())
	assert.True(t, (&SummarizerConfig{Provider: "openai", APIKey: "k"}).IsAvailable())
}
