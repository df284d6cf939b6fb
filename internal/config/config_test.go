package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorledger/internal/blob"
	"donorledger/internal/core"
)

var ledgerVars = []string{
	"LEDGER_STORAGE_DRIVER", "LEDGER_SQLITE_PATH", "LEDGER_POSTGRES_DSN",
	"LEDGER_REDIS_ADDR", "LEDGER_REDIS_PASSWORD", "LEDGER_REDIS_DB", "LEDGER_REDIS_PREFIX",
	"LEDGER_ARCHIVE_DRIVER", "LEDGER_ARCHIVE_FS_ROOT", "LEDGER_ARCHIVE_S3_BUCKET",
	"LEDGER_ARCHIVE_S3_REGION", "LEDGER_ARCHIVE_S3_ENDPOINT", "LEDGER_ARCHIVE_S3_PATH_STYLE",
	"LEDGER_LOG_LEVEL", "LEDGER_LOG_FORMAT", "LEDGER_METRICS_NAMESPACE",
}

// clearEnv unsets every LEDGER_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range ledgerVars {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, core.StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "donorledger.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, "donorledger:", cfg.Storage.Redis.Prefix)
	assert.Equal(t, blob.DriverFilesystem, cfg.Archive.Driver)
	assert.Equal(t, "archive", cfg.Archive.FSRoot)
	assert.Equal(t, "us-east-1", cfg.Archive.S3.Region)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "donorledger", cfg.Metrics.Namespace)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEDGER_STORAGE_DRIVER", "REDIS")
	t.Setenv("LEDGER_REDIS_ADDR", "cache:6380")
	t.Setenv("LEDGER_REDIS_DB", "3")
	t.Setenv("LEDGER_REDIS_PREFIX", "center-a:")
	t.Setenv("LEDGER_ARCHIVE_DRIVER", "s3")
	t.Setenv("LEDGER_ARCHIVE_S3_BUCKET", "ledger-archive")
	t.Setenv("LEDGER_ARCHIVE_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("LEDGER_ARCHIVE_S3_PATH_STYLE", "true")
	t.Setenv("LEDGER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, core.StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache:6380", cfg.Storage.Redis.Addr)
	assert.Equal(t, 3, cfg.Storage.Redis.DB)
	assert.Equal(t, "center-a:", cfg.Storage.Redis.Prefix)
	assert.Equal(t, blob.DriverS3, cfg.Archive.Driver)
	assert.Equal(t, "ledger-archive", cfg.Archive.S3.Bucket)
	assert.Equal(t, "http://minio:9000", cfg.Archive.S3.Endpoint)
	assert.True(t, cfg.Archive.S3.PathStyle)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LEDGER_STORAGE_DRIVER=memory\nLEDGER_LOG_FORMAT=text\n"), 0o600))
	t.Setenv("LEDGER_LOG_FORMAT", "json")

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, core.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEDGER_STORAGE_DRIVER", "postgres")
	t.Setenv("LEDGER_ARCHIVE_DRIVER", "s3")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LEDGER_POSTGRES_DSN")
	assert.Contains(t, err.Error(), "LEDGER_ARCHIVE_S3_BUCKET")

	clearEnv(t)
	t.Setenv("LEDGER_STORAGE_DRIVER", "mongo")
	t.Setenv("LEDGER_ARCHIVE_DRIVER", "ftp")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo")
	assert.Contains(t, err.Error(), "ftp")
}

func TestValidateAcceptsPostgresWithDSN(t *testing.T) {
	cfg := Config{
		Storage: core.StorageConfig{Driver: core.StoragePostgres, PostgresDSN: "postgres://localhost/ledger"},
		Archive: blob.Config{Driver: blob.DriverMemory},
	}
	assert.NoError(t, cfg.Validate())
}
