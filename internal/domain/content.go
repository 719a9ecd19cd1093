package domain

import (
	"net/url"
	"strings"
)

var (
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif", ".svg", ".webp"}
	videoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".flv", ".webm"}
	videoHosts      = []string{"youtube.com", "youtu.be", "vimeo.com"}
)

// DetectContentKind infers the kind of media behind a slide URL from its shape.
func DetectContentKind(raw string) ContentKind {
	if !strings.HasPrefix(raw, "http") && !strings.HasPrefix(raw, "www.") {
		return ContentUnknown
	}

	parseable := raw
	if strings.HasPrefix(raw, "www.") {
		parseable = "https://" + raw
	}
	u, err := url.Parse(parseable)
	if err != nil || u.Host == "" {
		return ContentUnknown
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, h := range videoHosts {
		if host == h {
			return ContentVideo
		}
	}

	for _, ext := range imageExtensions {
		if strings.HasSuffix(raw, ext) {
			return ContentImage
		}
	}
	for _, ext := range videoExtensions {
		if strings.HasSuffix(raw, ext) {
			return ContentVideo
		}
	}
	return ContentUnknown
}

// IsHostedVideo reports whether the URL points at a video hosting page rather
// than a media file.
func IsHostedVideo(raw string) bool {
	if DetectContentKind(raw) != ContentVideo {
		return false
	}
	for _, ext := range videoExtensions {
		if strings.HasSuffix(raw, ext) {
			return false
		}
	}
	return true
}
