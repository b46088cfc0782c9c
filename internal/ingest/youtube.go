// Package ingest provides supplemental, non-core ways of getting audio
// bytes in front of the Decoder — currently YouTube downloads. None of this
// package participates in the fingerprinting or matching contract; it only
// produces a local audio file and best-effort title/artist metadata.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/acousticdna/acousticdna/pkg/utils"
)

// Metadata is the best-effort title/artist/duration info yt-dlp reports for
// a video.
type Metadata struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Uploader string  `json:"uploader"`
	Channel  string  `json:"channel"`
	Duration float64 `json:"duration"`
}

func pickArtist(m Metadata) string {
	if strings.TrimSpace(m.Artist) != "" {
		return m.Artist
	}
	if strings.TrimSpace(m.Channel) != "" {
		return m.Channel
	}
	if strings.TrimSpace(m.Uploader) != "" {
		return m.Uploader
	}
	return "Unknown Artist"
}

// DownloadAudio fetches the best audio stream for youtubeURL into outputDir
// and returns its local path plus the extracted metadata. The caller is
// responsible for running the downloaded file through the ffmpeg
// normalization step and the Decoder; this package does no audio decoding.
func DownloadAudio(ctx context.Context, youtubeURL, outputDir string) (audioPath string, meta Metadata, err error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 3*time.Minute)
		defer cancel()
	}

	if err := utils.MakeDir(outputDir); err != nil {
		return "", Metadata{}, fmt.Errorf("creating output directory: %w", err)
	}

	metaCmd := ytdlp.New().
		NoPlaylist().
		SkipDownload().
		PrintJSON().
		NoWarnings()

	metaResult, err := metaCmd.Run(ctx, youtubeURL)
	if err != nil {
		return "", Metadata{}, fmt.Errorf("yt-dlp metadata extraction failed: %w", err)
	}

	if err := json.Unmarshal([]byte(metaResult.Stdout), &meta); err != nil {
		return "", Metadata{}, fmt.Errorf("parsing yt-dlp metadata JSON: %w", err)
	}
	if strings.TrimSpace(meta.ID) == "" {
		return "", Metadata{}, fmt.Errorf("missing video id in yt-dlp output")
	}
	if strings.TrimSpace(meta.Title) == "" {
		return "", Metadata{}, fmt.Errorf("missing title in yt-dlp output")
	}
	meta.Artist = pickArtist(meta)

	outputTemplate := filepath.Join(outputDir, meta.ID+".%(ext)s")
	dlCmd := ytdlp.New().
		NoPlaylist().
		NoWarnings().
		FormatSort("acodec", "abr").
		Output(outputTemplate)

	if _, err := dlCmd.Run(ctx, youtubeURL); err != nil {
		return "", Metadata{}, fmt.Errorf("yt-dlp download failed: %w", err)
	}

	audioExtensions := []string{".m4a", ".webm", ".opus", ".mp3", ".aac", ".ogg"}
	for _, ext := range audioExtensions {
		candidate := filepath.Join(outputDir, meta.ID+ext)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, meta, nil
		}
	}

	return "", Metadata{}, fmt.Errorf("downloaded audio file not found for video %s", meta.ID)
}
