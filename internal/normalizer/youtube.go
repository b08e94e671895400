package normalizer

import "regexp"

const (
	// EmbedBase is the privacy-enhanced player URL prefix.
	EmbedBase = "https://www.youtube-nocookie.com/embed/"
	// InvalidVideoID replaces IDs that could not be extracted.
	InvalidVideoID = "error"

	videoIDLength = 11
)

var videoIDPattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// VideoID extracts the 11-character video ID from the common YouTube URL
// forms, returning InvalidVideoID when none is found.
func VideoID(url string) string {
	match := videoIDPattern.FindStringSubmatch(url)
	if match == nil || len(match[2]) != videoIDLength {
		return InvalidVideoID
	}

	return match[2]
}

// EmbedURL returns the embed URL for url. It is never empty.
func EmbedURL(url string) string {
	return EmbedBase + VideoID(url)
}
