package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/acousticdna/acousticdna/internal/ingest"
	"github.com/acousticdna/acousticdna/internal/service"
	"github.com/acousticdna/acousticdna/pkg/logger"
	"github.com/acousticdna/acousticdna/pkg/utils"
)

// Server encapsulates the HTTP server and its dependencies.
type Server struct {
	svc    *service.Service
	config *ServerConfig
	log    *logger.Logger
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           int
	DBPath         string
	TempDir        string
	SampleRate     int
	AllowedOrigins []string
}

// NewServer creates a new server instance.
func NewServer(svc *service.Service, config *ServerConfig) *Server {
	return &Server{
		svc:    svc,
		config: config,
		log:    logger.GetLogger(),
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// statusForError maps a pipeline error to an HTTP status: client errors
// (malformed/too-short/empty audio) are 400s, everything else is a 500.
func (s *Server) statusForError(err error) int {
	if service.IsClientError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// saveUpload copies a multipart file part to a temp file under TempDir and
// returns its path. Caller owns cleanup.
func (s *Server) saveUpload(prefix string, file io.Reader, filename string) (string, error) {
	path := filepath.Join(s.config.TempDir, fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixNano(), filepath.Base(filename)))
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// handleRoot handles GET / — the core contract's health string.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "AcousticDNA fingerprint service is running")
}

// handleMetrics handles GET /api/health/metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	songs, err := s.svc.ListSongs(r.Context())
	if err != nil {
		s.log.Errorf("listing songs for metrics: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to retrieve metrics")
		return
	}

	s.respondJSON(w, http.StatusOK, MetricsResponse{
		Status:       "healthy",
		DatabasePath: s.config.DBPath,
		SongCount:    len(songs),
		SampleRate:   s.config.SampleRate,
	})
}

// handleListSongs handles GET /api/songs.
func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.ListSongs(r.Context())
	if err != nil {
		s.log.Errorf("listing songs: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to retrieve songs")
		return
	}

	dtos := make([]SongDTO, len(entries))
	for i, e := range entries {
		dtos[i] = SongDTO{
			ID:          e.ID,
			Title:       e.Title,
			Artist:      e.Artist,
			DurationSec: e.Fingerprint.DurationSec,
			HashCount:   len(e.Fingerprint.Hashes),
		}
	}
	s.respondJSON(w, http.StatusOK, ListSongsResponse{Songs: dtos, Count: len(dtos)})
}

// handleGetSong handles GET /api/songs/{id}.
func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request, id string) {
	entry, ok, err := s.svc.GetSong(r.Context(), id)
	if err != nil {
		s.log.Errorf("getting song %s: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "failed to retrieve song")
		return
	}
	if !ok {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("song %s not found", id))
		return
	}
	s.respondJSON(w, http.StatusOK, SongDTO{
		ID:          entry.ID,
		Title:       entry.Title,
		Artist:      entry.Artist,
		DurationSec: entry.Fingerprint.DurationSec,
		HashCount:   len(entry.Fingerprint.Hashes),
	})
}

// handleDeleteSong handles DELETE /api/songs/{id}.
func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request, id string) {
	deleted, err := s.svc.DeleteSong(r.Context(), id)
	if err != nil {
		s.log.Errorf("deleting song %s: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "failed to delete song")
		return
	}
	if !deleted {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("song %s not found", id))
		return
	}
	s.log.Infof("deleted song %s", id)
	s.respondJSON(w, http.StatusOK, DeleteSongResponse{Deleted: true, ID: id})
}

// handleAddSong handles POST /add-song (multipart file upload).
func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	if err := r.ParseMultipartForm(100 << 20); err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to parse form data")
		return
	}

	title := r.FormValue("title")
	artist := r.FormValue("artist")
	if title == "" || artist == "" {
		s.respondError(w, http.StatusBadRequest, "title and artist are required")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	tempFile, err := s.saveUpload("upload", file, header.Filename)
	if err != nil {
		s.log.Errorf("saving upload: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to process upload")
		return
	}
	defer os.Remove(tempFile)

	songID, err := s.svc.Ingest(ctx, tempFile, title, artist)
	if err != nil {
		s.log.Errorf("ingesting %q: %v", title, err)
		s.respondError(w, s.statusForError(err), err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, AddSongResponse{Success: true, SongID: songID})
}

// handleAddSongYouTube handles POST /api/songs/youtube.
func (s *Server) handleAddSongYouTube(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	var req AddSongYouTubeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" || !utils.IsYouTubeURL(req.URL) {
		s.respondError(w, http.StatusBadRequest, "a valid youtube url is required")
		return
	}

	downloadedPath, meta, err := ingest.DownloadAudio(ctx, req.URL, s.config.TempDir)
	if err != nil {
		s.log.Errorf("downloading youtube audio: %v", err)
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("youtube download failed: %v", err))
		return
	}
	defer os.Remove(downloadedPath)

	title := req.Title
	if title == "" {
		title = meta.Title
	}
	artist := req.Artist
	if artist == "" {
		artist = meta.Artist
	}
	if title == "" || artist == "" {
		s.respondError(w, http.StatusBadRequest, "could not determine title/artist from youtube metadata")
		return
	}

	songID, err := s.svc.Ingest(ctx, downloadedPath, title, artist)
	if err != nil {
		s.log.Errorf("ingesting youtube song %q: %v", title, err)
		s.respondError(w, s.statusForError(err), err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, AddSongResponse{Success: true, SongID: songID})
}

// handleMatch handles POST /match (multipart file upload).
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	if err := r.ParseMultipartForm(50 << 20); err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to parse form data")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	tempFile, err := s.saveUpload("query", file, header.Filename)
	if err != nil {
		s.log.Errorf("saving upload: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to process upload")
		return
	}
	defer os.Remove(tempFile)

	result, err := s.svc.Identify(ctx, tempFile)
	if err != nil {
		s.log.Errorf("identifying %s: %v", header.Filename, err)
		s.respondError(w, s.statusForError(err), err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, MatchResponse{
		Matched:    result.Matched,
		SongID:     result.ID,
		Title:      result.Title,
		Artist:     result.Artist,
		Confidence: result.Confidence,
	})
}

// handleSongs routes requests to /api/songs.
func (s *Server) handleSongs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListSongs(w, r)
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSong routes requests to /api/songs/{id}.
func (s *Server) handleSong(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Path[len("/api/songs/"):]
	if id == "" {
		s.respondError(w, http.StatusBadRequest, "song id required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetSong(w, r, id)
	case http.MethodDelete:
		s.handleDeleteSong(w, r, id)
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
