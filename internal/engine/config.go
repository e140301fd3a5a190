package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeAPIKey          string
	YouTubeCredentialsFile string   // service-account JSON; used when no API key is set
	TranscriptLangs        []string // caption language preference, most preferred first
	FetchTimeout           time.Duration
	HTTPClient             *http.Client
	BrowserClient          *BrowserClient // nil = watch pages fetched with HTTPClient
}

// HasCredentials reports whether any Data API credential is configured.
func (c Config) HasCredentials() bool {
	return c.YouTubeAPIKey != "" || c.YouTubeCredentialsFile != ""
}
