package service

import (
	"github.com/acousticdna/acousticdna/internal/audio"
	"github.com/acousticdna/acousticdna/internal/catalog"
	"github.com/acousticdna/acousticdna/pkg/logger"
)

// Config holds the options a Service is built from.
type Config struct {
	// DBPath is the path to the SQLite catalog file.
	DBPath string

	// TempDir is the directory used for uploaded/converted audio files.
	TempDir string

	// SampleRate is the rate ffmpeg converts non-WAV input to before
	// decoding. Defaults to audio.TargetSampleRate. It does not change the
	// analysis rate: the preconditioner always resamples to
	// audio.TargetSampleRate.
	SampleRate int

	// Logger is the logger instance to use. If nil a default is created.
	Logger *logger.Logger

	// Store is the FingerprintStore backend to use. If nil, a SQLite store
	// is opened at DBPath.
	Store *catalog.Store
}

// Option configures a Service.
type Option func(*Config)

// WithDBPath sets the catalog database file path.
func WithDBPath(path string) Option {
	return func(c *Config) { c.DBPath = path }
}

// WithTempDir sets the temporary directory for audio conversion.
func WithTempDir(dir string) Option {
	return func(c *Config) { c.TempDir = dir }
}

// WithSampleRate overrides the rate non-WAV input is converted to by ffmpeg.
func WithSampleRate(rate int) Option {
	return func(c *Config) { c.SampleRate = rate }
}

// WithLogger injects a custom logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithStore injects an already-open FingerprintStore, bypassing DBPath.
func WithStore(store *catalog.Store) Option {
	return func(c *Config) { c.Store = store }
}

func defaultConfig() *Config {
	return &Config{
		DBPath:     catalog.DefaultDBFile,
		TempDir:    "/tmp",
		SampleRate: audio.TargetSampleRate,
	}
}
