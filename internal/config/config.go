// Package config centralizes environment-variable configuration for the
// docket processing service: database connection, S3-compatible blob store
// credentials, and optional LLM-backed author-name splitting. Values are
// read once at startup (see cmd/server) and passed down as plain structs —
// nothing in this package reaches back into the environment after New
// returns.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the fully resolved set of environment-derived settings the
// server needs to start.
type Config struct {
	HTTPAddr string
	LogLevel string

	DBDriver string
	DBDSN    string

	Blob BlobConfig
	LLM  LLMConfig

	JobConcurrency        int
	FilingConcurrency     int
	AttachmentConcurrency int

	AttachmentFallbackPolicy string

	Sweep SweepConfig
}

// SweepConfig configures an optional recurring ByJurisdiction+ProcessAndIngest
// sweep (internal/orchestrator.SweepScheduler). CronExpr is empty when no
// sweep should run.
type SweepConfig struct {
	CronExpr     string
	Country      string
	State        string
	Jurisdiction string
}

// BlobConfig holds the S3-compatible object store credentials and bucket
// the blob store adapter (internal/blobstore) connects with. Two credential
// sources are supported — DigitalOcean Spaces and Supabase Storage — since
// both surfaced in the source deployment; whichever pair is set wins, with
// DigitalOcean checked first.
type BlobConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

// LLMConfig holds the DeepInfra API credentials used by internal/llm for
// splitting free-text author blobs into structured names. When APIKey is
// empty, cmd/server uses internal/llm's deterministic heuristic splitter
// instead of calling out to a model.
type LLMConfig struct {
	APIKey string
	Model  string
}

// Fallback policy values for individual_authors_blob handling when no
// structured individual_authors were supplied by the scraper (spec.md §12).
const (
	FallbackLLMSplit  = "llm_split"
	FallbackWarnEmpty = "warn_empty"
)

// New resolves Config from the process environment, applying the same
// defaults the original deployment used.
func New() (Config, error) {
	cfg := Config{
		HTTPAddr: envOrDefault("DOCKETPROC_HTTP_ADDR", ":8080"),
		LogLevel: envOrDefault("DOCKETPROC_LOG_LEVEL", "info"),
		DBDriver: envOrDefault("DOCKETPROC_DB_DRIVER", "postgres"),
		DBDSN:    envOrDefault("POSTGRES_CONNECTION", os.Getenv("DATABASE_URL")),

		JobConcurrency:        envOrDefaultInt("DOCKETPROC_JOB_CONCURRENCY", 25),
		FilingConcurrency:     envOrDefaultInt("DOCKETPROC_FILING_CONCURRENCY", 50),
		AttachmentConcurrency: envOrDefaultInt("DOCKETPROC_ATTACHMENT_CONCURRENCY", 5),

		AttachmentFallbackPolicy: envOrDefault("DOCKETPROC_AUTHOR_FALLBACK_POLICY", FallbackLLMSplit),

		Sweep: SweepConfig{
			CronExpr:     os.Getenv("DOCKETPROC_SWEEP_CRON"),
			Country:      envOrDefault("DOCKETPROC_SWEEP_COUNTRY", "us"),
			State:        os.Getenv("DOCKETPROC_SWEEP_STATE"),
			Jurisdiction: os.Getenv("DOCKETPROC_SWEEP_JURISDICTION"),
		},
	}

	if cfg.DBDSN == "" && cfg.DBDriver == "postgres" {
		return Config{}, fmt.Errorf("config: POSTGRES_CONNECTION or DATABASE_URL is required for driver %q", cfg.DBDriver)
	}

	cfg.Blob = resolveBlobConfig()
	cfg.LLM = LLMConfig{
		APIKey: os.Getenv("DEEPINFRA_API_KEY"),
		Model:  envOrDefault("DEEPINFRA_MODEL", "meta-llama/Meta-Llama-3.1-8B-Instruct"),
	}

	return cfg, nil
}

func resolveBlobConfig() BlobConfig {
	bucket := envOrDefault("OPENSCRAPERS_S3_BUCKET", "openscrapers")

	if ak := os.Getenv("DIGITALOCEAN_S3_ACCESS_KEY"); ak != "" {
		return BlobConfig{
			Endpoint:  envOrDefault("DIGITALOCEAN_S3_ENDPOINT", "https://nyc3.digitaloceanspaces.com"),
			Region:    envOrDefault("DIGITALOCEAN_S3_REGION", "nyc3"),
			AccessKey: ak,
			SecretKey: os.Getenv("DIGITALOCEAN_S3_SECRET_KEY"),
			Bucket:    bucket,
		}
	}

	return BlobConfig{
		Endpoint:  os.Getenv("SUPABASE_S3_ENDPOINT"),
		Region:    envOrDefault("SUPABASE_S3_REGION", "us-east-1"),
		AccessKey: os.Getenv("SUPABASE_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("SUPABASE_S3_SECRET_KEY"),
		Bucket:    bucket,
	}
}

// ShutdownTimeout bounds graceful HTTP shutdown; not environment-tunable, it
// lives here so cmd/server has a single place to pull ambient timing from.
const ShutdownTimeout = 15 * time.Second

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}
