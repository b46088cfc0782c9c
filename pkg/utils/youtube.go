package utils

import (
	"net/url"
	"strings"
)

// IsYouTubeURL checks if a URL is a valid YouTube URL
func IsYouTubeURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Host)
	return strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be")
}
