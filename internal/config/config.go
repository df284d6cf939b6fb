// Package config loads donorledger settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"donorledger/internal/blob"
	"donorledger/internal/core"
	"donorledger/internal/infra/persistence/redis"
	"donorledger/internal/infra/persistence/sqlite"
	"donorledger/internal/logging"
	"donorledger/internal/metrics"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LEDGER"

// Config holds all application configuration.
type Config struct {
	Storage core.StorageConfig
	Archive blob.Config
	Log     logging.Config
	Metrics MetricsConfig
}

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	Namespace string
}

// Load reads configuration from LEDGER_* environment variables. Values in
// the optional env files are loaded first without overriding variables that
// are already set; a missing file is not an error.
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", file, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		Storage: core.StorageConfig{
			Driver:      core.StorageDriver(strings.ToLower(v.GetString("storage.driver"))),
			SQLitePath:  v.GetString("sqlite.path"),
			PostgresDSN: v.GetString("postgres.dsn"),
			Redis: redis.Options{
				Addr:     v.GetString("redis.addr"),
				Password: v.GetString("redis.password"),
				DB:       v.GetInt("redis.db"),
				Prefix:   v.GetString("redis.prefix"),
			},
		},
		Archive: blob.Config{
			Driver: blob.Driver(strings.ToLower(v.GetString("archive.driver"))),
			FSRoot: v.GetString("archive.fs.root"),
			S3: blob.S3Config{
				Bucket:    v.GetString("archive.s3.bucket"),
				Region:    v.GetString("archive.s3.region"),
				Endpoint:  v.GetString("archive.s3.endpoint"),
				PathStyle: v.GetBool("archive.s3.path.style"),
			},
		},
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Metrics: MetricsConfig{
			Namespace: v.GetString("metrics.namespace"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", string(core.StorageSQLite))
	v.SetDefault("sqlite.path", sqlite.DefaultPath)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", redis.DefaultPrefix)
	v.SetDefault("archive.driver", string(blob.DriverFilesystem))
	v.SetDefault("archive.fs.root", "archive")
	v.SetDefault("archive.s3.bucket", "")
	v.SetDefault("archive.s3.region", "us-east-1")
	v.SetDefault("archive.s3.endpoint", "")
	v.SetDefault("archive.s3.path.style", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics.namespace", metrics.DefaultNamespace)
}

// Validate checks driver names and the settings each driver requires.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case core.StorageMemory, core.StorageSQLite, core.StorageRedis:
	case core.StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("LEDGER_POSTGRES_DSN is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	switch c.Archive.Driver {
	case blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.Archive.S3.Bucket == "" {
			errs = append(errs, errors.New("LEDGER_ARCHIVE_S3_BUCKET is required for the s3 archive driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown archive driver %q", c.Archive.Driver))
	}
	return errors.Join(errs...)
}
