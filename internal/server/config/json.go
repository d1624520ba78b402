package config

import (
	"encoding/json"
	"os"

	"github.com/osamanazar47/alx-files-manager/internal/flagx"
	"github.com/osamanazar47/alx-files-manager/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "24h" and integer nanoseconds are accepted.
//
// Keys missing from the file keep the value they had before the overlay.
type JsonConfig struct {
	HTTPAddr          string         `json:"http_addr"`
	MetadataBackend   string         `json:"metadata_backend"`
	DatabaseDSN       string         `json:"database_dsn"`
	SessionTTL        timex.Duration `json:"session_ttl"`
	SessionDBPath     string         `json:"session_db_path"`
	ContentBackend    string         `json:"content_backend"`
	FolderPath        string         `json:"folder_path"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	S3KeyPrefix       string         `json:"s3_key_prefix"`
	QueueBackend      string         `json:"queue_backend"`
	QueuePollInterval timex.Duration `json:"queue_poll_interval"`
	QueueLease        timex.Duration `json:"queue_lease"`
	WorkerConcurrency int            `json:"worker_concurrency"`
	EmbeddedWorker    bool           `json:"embedded_worker"`
	MetricsEnabled    bool           `json:"metrics_enabled"`
	LogFormat         string         `json:"log_format"`
	LogLevel          string         `json:"log_level"`
	ShutdownTimeout   timex.Duration `json:"shutdown_timeout"`
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		HTTPAddr:          c.HTTPAddr,
		MetadataBackend:   c.MetadataBackend,
		DatabaseDSN:       c.DatabaseDSN,
		SessionTTL:        timex.Duration{Duration: c.SessionTTL},
		SessionDBPath:     c.SessionDBPath,
		ContentBackend:    c.ContentBackend,
		FolderPath:        c.FolderPath,
		S3RootUser:        c.S3RootUser,
		S3RootPassword:    c.S3RootPassword,
		S3Bucket:          c.S3Bucket,
		S3Region:          c.S3Region,
		S3BaseEndpoint:    c.S3BaseEndpoint,
		S3KeyPrefix:       c.S3KeyPrefix,
		QueueBackend:      c.QueueBackend,
		QueuePollInterval: timex.Duration{Duration: c.QueuePollInterval},
		QueueLease:        timex.Duration{Duration: c.QueueLease},
		WorkerConcurrency: c.WorkerConcurrency,
		EmbeddedWorker:    c.EmbeddedWorker,
		MetricsEnabled:    c.MetricsEnabled,
		LogFormat:         c.LogFormat,
		LogLevel:          c.LogLevel,
		ShutdownTimeout:   timex.Duration{Duration: c.ShutdownTimeout},
	}
}

func (j *JsonConfig) apply(c *Config) {
	c.HTTPAddr = j.HTTPAddr
	c.MetadataBackend = j.MetadataBackend
	c.DatabaseDSN = j.DatabaseDSN
	c.SessionTTL = j.SessionTTL.Duration
	c.SessionDBPath = j.SessionDBPath
	c.ContentBackend = j.ContentBackend
	c.FolderPath = j.FolderPath
	c.S3RootUser = j.S3RootUser
	c.S3RootPassword = j.S3RootPassword
	c.S3Bucket = j.S3Bucket
	c.S3Region = j.S3Region
	c.S3BaseEndpoint = j.S3BaseEndpoint
	c.S3KeyPrefix = j.S3KeyPrefix
	c.QueueBackend = j.QueueBackend
	c.QueuePollInterval = j.QueuePollInterval.Duration
	c.QueueLease = j.QueueLease.Duration
	c.WorkerConcurrency = j.WorkerConcurrency
	c.EmbeddedWorker = j.EmbeddedWorker
	c.MetricsEnabled = j.MetricsEnabled
	c.LogFormat = j.LogFormat
	c.LogLevel = j.LogLevel
	c.ShutdownTimeout = j.ShutdownTimeout.Duration
}

// parseJson overlays values from the JSON file named by -c or -config.
// Without either flag nothing is loaded.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}
	c.apply(config)
	return nil
}
