package config

import (
	"strings"

	"github.com/spf13/viper"
)

// envKeys maps config keys to the environment variables they are read from.
// PORT, DB_DSN and FOLDER_PATH keep the names used by existing deployments.
var envKeys = map[string]string{
	"port":                "PORT",
	"http_addr":           "HTTP_ADDR",
	"metadata_backend":    "METADATA_BACKEND",
	"database_dsn":        "DB_DSN",
	"session_ttl":         "SESSION_TTL",
	"session_db_path":     "SESSION_DB_PATH",
	"content_backend":     "CONTENT_BACKEND",
	"folder_path":         "FOLDER_PATH",
	"s3_root_user":        "S3_ROOT_USER",
	"s3_root_password":    "S3_ROOT_PASSWORD",
	"s3_bucket":           "S3_BUCKET",
	"s3_region":           "S3_REGION",
	"s3_base_endpoint":    "S3_BASE_ENDPOINT",
	"s3_key_prefix":       "S3_KEY_PREFIX",
	"queue_backend":       "QUEUE_BACKEND",
	"queue_poll_interval": "QUEUE_POLL_INTERVAL",
	"queue_lease":         "QUEUE_LEASE",
	"worker_concurrency":  "WORKER_CONCURRENCY",
	"embedded_worker":     "EMBEDDED_WORKER",
	"metrics_enabled":     "METRICS_ENABLED",
	"log_format":          "LOG_FORMAT",
	"log_level":           "LOG_LEVEL",
	"shutdown_timeout":    "SHUTDOWN_TIMEOUT",
}

// parseEnv overlays values from environment variables. Only variables that
// are actually set are applied.
func parseEnv(c *Config) error {
	v := viper.New()
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	if v.IsSet("port") {
		c.HTTPAddr = ":" + strings.TrimPrefix(v.GetString("port"), ":")
	}
	str("http_addr", &c.HTTPAddr)
	str("metadata_backend", &c.MetadataBackend)
	str("database_dsn", &c.DatabaseDSN)
	str("session_db_path", &c.SessionDBPath)
	str("content_backend", &c.ContentBackend)
	str("folder_path", &c.FolderPath)
	str("s3_root_user", &c.S3RootUser)
	str("s3_root_password", &c.S3RootPassword)
	str("s3_bucket", &c.S3Bucket)
	str("s3_region", &c.S3Region)
	str("s3_base_endpoint", &c.S3BaseEndpoint)
	str("s3_key_prefix", &c.S3KeyPrefix)
	str("queue_backend", &c.QueueBackend)
	str("log_format", &c.LogFormat)
	str("log_level", &c.LogLevel)

	if v.IsSet("session_ttl") {
		c.SessionTTL = v.GetDuration("session_ttl")
	}
	if v.IsSet("queue_poll_interval") {
		c.QueuePollInterval = v.GetDuration("queue_poll_interval")
	}
	if v.IsSet("queue_lease") {
		c.QueueLease = v.GetDuration("queue_lease")
	}
	if v.IsSet("shutdown_timeout") {
		c.ShutdownTimeout = v.GetDuration("shutdown_timeout")
	}
	if v.IsSet("worker_concurrency") {
		c.WorkerConcurrency = v.GetInt("worker_concurrency")
	}
	if v.IsSet("embedded_worker") {
		c.EmbeddedWorker = v.GetBool("embedded_worker")
	}
	if v.IsSet("metrics_enabled") {
		c.MetricsEnabled = v.GetBool("metrics_enabled")
	}
	return nil
}
