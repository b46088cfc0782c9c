package main

// MatchResponse is the body of POST /match.
type MatchResponse struct {
	Matched    bool    `json:"matched"`
	SongID     string  `json:"song_id,omitempty"`
	Title      string  `json:"title,omitempty"`
	Artist     string  `json:"artist,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// AddSongResponse is the body of POST /add-song and POST /api/songs/youtube.
type AddSongResponse struct {
	Success bool   `json:"success"`
	SongID  string `json:"song_id"`
}

// SongDTO represents a catalog entry in API responses.
type SongDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	DurationSec float64 `json:"duration_sec"`
	HashCount   int     `json:"hash_count"`
}

// ListSongsResponse is the response for GET /api/songs.
type ListSongsResponse struct {
	Songs []SongDTO `json:"songs"`
	Count int       `json:"count"`
}

// DeleteSongResponse is the response for DELETE /api/songs/{id}.
type DeleteSongResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// MetricsResponse reports server health and catalog size.
type MetricsResponse struct {
	Status       string `json:"status"`
	DatabasePath string `json:"database_path"`
	SongCount    int    `json:"song_count"`
	SampleRate   int    `json:"sample_rate"`
}

// AddSongYouTubeRequest is the request body for POST /api/songs/youtube.
type AddSongYouTubeRequest struct {
	URL    string `json:"url"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
