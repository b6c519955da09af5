package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_RequiresDSNForPostgresDriver(t *testing.T) {
	t.Setenv("POSTGRES_CONNECTION", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DOCKETPROC_DB_DRIVER", "")

	_, err := New()
	require.Error(t, err)
}

func TestNew_FallsBackToDatabaseURL(t *testing.T) {
	t.Setenv("POSTGRES_CONNECTION", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/dockets")

	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, "postgres://localhost/dockets", cfg.DBDSN)
}

func TestNew_AppliesDefaults(t *testing.T) {
	t.Setenv("POSTGRES_CONNECTION", "postgres://localhost/dockets")
	t.Setenv("DOCKETPROC_HTTP_ADDR", "")
	t.Setenv("DOCKETPROC_JOB_CONCURRENCY", "")

	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 25, cfg.JobConcurrency)
	require.Equal(t, FallbackLLMSplit, cfg.AttachmentFallbackPolicy)
}

func TestNew_InvalidIntEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("POSTGRES_CONNECTION", "postgres://localhost/dockets")
	t.Setenv("DOCKETPROC_JOB_CONCURRENCY", "not-a-number")

	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, 25, cfg.JobConcurrency)
}

func TestResolveBlobConfig_PrefersDigitalOceanWhenAccessKeySet(t *testing.T) {
	t.Setenv("DIGITALOCEAN_S3_ACCESS_KEY", "do-key")
	t.Setenv("DIGITALOCEAN_S3_SECRET_KEY", "do-secret")
	t.Setenv("SUPABASE_S3_ACCESS_KEY", "supabase-key")
	t.Setenv("OPENSCRAPERS_S3_BUCKET", "")
	t.Setenv("DIGITALOCEAN_S3_ENDPOINT", "")
	t.Setenv("DIGITALOCEAN_S3_REGION", "")

	blob := resolveBlobConfig()
	require.Equal(t, "do-key", blob.AccessKey)
	require.Equal(t, "https://nyc3.digitaloceanspaces.com", blob.Endpoint)
	require.Equal(t, "nyc3", blob.Region)
	require.Equal(t, "openscrapers", blob.Bucket)
}

func TestResolveBlobConfig_FallsBackToSupabaseWhenNoDigitalOceanKey(t *testing.T) {
	t.Setenv("DIGITALOCEAN_S3_ACCESS_KEY", "")
	t.Setenv("SUPABASE_S3_ACCESS_KEY", "supabase-key")
	t.Setenv("SUPABASE_S3_ENDPOINT", "https://supabase.example.com")
	t.Setenv("SUPABASE_S3_REGION", "")

	blob := resolveBlobConfig()
	require.Equal(t, "supabase-key", blob.AccessKey)
	require.Equal(t, "https://supabase.example.com", blob.Endpoint)
	require.Equal(t, "us-east-1", blob.Region)
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("DOCKETPROC_TEST_KEY", "")
	require.Equal(t, "fallback", envOrDefault("DOCKETPROC_TEST_KEY", "fallback"))

	t.Setenv("DOCKETPROC_TEST_KEY", "set")
	require.Equal(t, "set", envOrDefault("DOCKETPROC_TEST_KEY", "fallback"))
}

func TestEnvOrDefaultInt(t *testing.T) {
	t.Setenv("DOCKETPROC_TEST_INT", "")
	require.Equal(t, 7, envOrDefaultInt("DOCKETPROC_TEST_INT", 7))

	t.Setenv("DOCKETPROC_TEST_INT", "42")
	require.Equal(t, 42, envOrDefaultInt("DOCKETPROC_TEST_INT", 7))
}
