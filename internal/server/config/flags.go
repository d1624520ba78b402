package config

import (
	"flag"
	"io"

	"github.com/osamanazar47/alx-files-manager/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-m", "-f", "-k", "-t", "-s", "-u", "-p", "-b", "-g", "-e", "-q", "-w", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":5000")
//	-d string     PostgreSQL DSN
//	-m string     metadata backend (postgres|memory)
//	-f string     content folder path
//	-k string     content backend (filesystem|s3|memory)
//	-t duration   session TTL (e.g., "24h")
//	-s string     session badger directory
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket name
//	-g string     S3 region
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-q string     queue backend (postgres|memory)
//	-w int        worker concurrency
//	-l string     log level
//
// args is filtered with flagx.FilterArgs first so flags owned by other
// components (such as -c) do not cause parse errors.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MetadataBackend, "m", config.MetadataBackend, "metadata backend")
	fs.StringVar(&config.FolderPath, "f", config.FolderPath, "content folder path")
	fs.StringVar(&config.ContentBackend, "k", config.ContentBackend, "content backend")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session ttl")
	fs.StringVar(&config.SessionDBPath, "s", config.SessionDBPath, "session store directory")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.QueueBackend, "q", config.QueueBackend, "queue backend")
	fs.IntVar(&config.WorkerConcurrency, "w", config.WorkerConcurrency, "worker concurrency")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
