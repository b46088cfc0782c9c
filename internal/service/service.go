// Package service wires the Decoder, Preconditioner, fingerprint pipeline
// and FingerprintStore into the two operations the system exposes:
// ingest (register a labeled reference track) and identify (recognize an
// unknown clip).
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/acousticdna/acousticdna/internal/audio"
	"github.com/acousticdna/acousticdna/internal/catalog"
	"github.com/acousticdna/acousticdna/internal/fingerprint"
	"github.com/acousticdna/acousticdna/internal/pipeline"
	"github.com/acousticdna/acousticdna/pkg/logger"
)

// Service is the acoustic fingerprinting and matching service.
type Service struct {
	store   *catalog.Store
	matcher *catalog.Matcher
	log     *logger.Logger
	cfg     *Config
	owned   bool // true if Service opened store and must close it
}

// New builds a Service from the given options.
func New(opts ...Option) (*Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	store := cfg.Store
	owned := false
	if store == nil {
		var err error
		store, err = catalog.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening catalog: %w", err)
		}
		owned = true
	}

	return &Service{
		store:   store,
		matcher: catalog.NewMatcher(store),
		log:     cfg.Logger,
		cfg:     cfg,
		owned:   owned,
	}, nil
}

// Close releases the underlying catalog connection if this Service opened it.
func (s *Service) Close() error {
	if s.owned {
		return s.store.Close()
	}
	return nil
}

// decodeAndFingerprint runs Decode -> Generate over an audio file at path.
// Files that are not already WAV are normalized to mono PCM WAV via ffmpeg
// first, so the Decoder always sees a container it understands.
func (s *Service) decodeAndFingerprint(ctx context.Context, path string) (fingerprint.Fingerprint, error) {
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		converted, err := audio.ConvertToMonoWAV(ctx, path, s.cfg.TempDir, audio.ConvertConfig{SampleRate: s.cfg.SampleRate})
		if err != nil {
			return fingerprint.Fingerprint{}, pipeline.NewDecodeError("normalizing audio with ffmpeg", err)
		}
		defer os.Remove(converted)
		path = converted
	}

	pcm, err := audio.DecodeFile(path)
	if err != nil {
		return fingerprint.Fingerprint{}, err
	}
	return fingerprint.Generate(pcm.Samples, pcm.SampleRate)
}

// Ingest registers a labeled reference track and returns its catalog id.
func (s *Service) Ingest(ctx context.Context, audioPath, title, artist string) (string, error) {
	s.log.Infof("ingesting %q by %q from %s", title, artist, audioPath)

	fp, err := s.decodeAndFingerprint(ctx, audioPath)
	if err != nil {
		return "", err
	}

	id, err := s.store.Insert(ctx, title, artist, fp)
	if err != nil {
		return "", err
	}

	s.log.Infof("ingested id=%s (%d hashes, %.2fs)", id, len(fp.Hashes), fp.DurationSec)
	return id, nil
}

// IdentifyResult is the outcome of an identify query.
type IdentifyResult struct {
	Matched    bool
	ID         string
	Title      string
	Artist     string
	Confidence float64
}

// Identify recognizes an unknown clip against the catalog and returns the
// best-matching entry, or Matched=false if none clears the acceptance
// threshold.
func (s *Service) Identify(ctx context.Context, audioPath string) (IdentifyResult, error) {
	fp, err := s.decodeAndFingerprint(ctx, audioPath)
	if err != nil {
		return IdentifyResult{}, err
	}

	match, ok, err := s.matcher.FindBest(ctx, fp)
	if err != nil {
		return IdentifyResult{}, err
	}
	if !ok {
		return IdentifyResult{Matched: false}, nil
	}

	return IdentifyResult{
		Matched:    true,
		ID:         match.ID,
		Title:      match.Title,
		Artist:     match.Artist,
		Confidence: match.Score,
	}, nil
}

// IdentifyAll recognizes an unknown clip and returns every catalog entry
// whose score clears the acceptance threshold, ranked best first.
func (s *Service) IdentifyAll(ctx context.Context, audioPath string) ([]catalog.Match, error) {
	fp, err := s.decodeAndFingerprint(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	return s.matcher.FindAll(ctx, fp)
}

// ListSongs returns every catalog entry's id/title/artist/duration.
func (s *Service) ListSongs(ctx context.Context) ([]catalog.Entry, error) {
	return s.store.Scan(ctx)
}

// GetSong fetches a single catalog entry by id.
func (s *Service) GetSong(ctx context.Context, id string) (catalog.Entry, bool, error) {
	return s.store.Get(ctx, id)
}

// DeleteSong removes a catalog entry by id.
func (s *Service) DeleteSong(ctx context.Context, id string) (bool, error) {
	return s.store.Delete(ctx, id)
}

// IsClientError reports whether err should be surfaced as a 4xx to a
// transport layer, as opposed to a store/server failure.
func IsClientError(err error) bool { return pipeline.IsClientError(err) }
