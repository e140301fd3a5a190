package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

// YouTube transcript fetching.
// Primary:  watch page ytInitialPlayerResponse → captionTracks (works from any IP)
// Fallback: ANDROID Innertube /player → captionTracks (works from non-blocked IPs)
// Either way the chosen track's timedtext XML is parsed into timed entries.

// TranscriptEntry is one caption line.
type TranscriptEntry struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// TranscriptFetcher downloads caption tracks. BrowserClient, when set, is used
// for the watch page so the request carries a Chrome TLS fingerprint.
type TranscriptFetcher struct {
	httpClient *http.Client
	browser    *engine.BrowserClient
	langs      []string
	timeout    time.Duration
	retry      engine.RetryConfig
	watchURL   string
	playerURL  string
}

// NewTranscriptFetcher builds a fetcher from engine config.
func NewTranscriptFetcher(cfg engine.Config) *TranscriptFetcher {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	langs := cfg.TranscriptLangs
	if len(langs) == 0 {
		langs = []string{"en"}
	}
	return &TranscriptFetcher{
		httpClient: hc,
		browser:    cfg.BrowserClient,
		langs:      langs,
		timeout:    cfg.FetchTimeout,
		retry:      engine.DefaultRetryConfig,
		watchURL:   ytWatchURL,
		playerURL:  ytPlayerURL,
	}
}

// Fetch returns the transcript of videoID as timed entries.
func (f *TranscriptFetcher) Fetch(ctx context.Context, videoID string) ([]TranscriptEntry, error) {
	engine.IncrYouTubeTranscript()
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	tracks, err := f.tracksFromWatchPage(ctx, videoID)
	if err != nil {
		slog.Warn("youtube: page scrape failed, trying player",
			slog.String("id", videoID), slog.Any("err", err))
		tracks, err = f.tracksFromPlayer(ctx, videoID)
	}
	if err != nil {
		engine.IncrYouTubeTranscriptError()
		return nil, err
	}

	track, ok := pickBestTrack(tracks, f.langs)
	if !ok {
		engine.IncrYouTubeTranscriptError()
		return nil, errors.New("all caption tracks require PoToken")
	}
	entries, err := f.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		engine.IncrYouTubeTranscriptError()
		return nil, err
	}
	if len(entries) == 0 {
		engine.IncrYouTubeTranscriptError()
		return nil, errors.New("empty transcript")
	}
	return entries, nil
}

// FormatTranscript renders entries as newline-joined text, or as a JSON list
// of {text,start,duration} when includeTimestamp is set.
func FormatTranscript(entries []TranscriptEntry, includeTimestamp bool) (string, error) {
	if includeTimestamp {
		if entries == nil {
			entries = []TranscriptEntry{}
		}
		data, err := json.Marshal(entries)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Text)
	}
	return strings.Join(lines, "\n"), nil
}

func (f *TranscriptFetcher) tracksFromWatchPage(ctx context.Context, videoID string) ([]captionTrack, error) {
	body, err := f.fetchWatchPage(ctx, f.watchURL+"?v="+url.QueryEscape(videoID))
	if err != nil {
		return nil, err
	}
	idx := bytes.Index(body, []byte(ytInitialPlayerResponseMarker))
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}
	var playerResp innertubePlayerResp
	if err := json.Unmarshal(jsonData, &playerResp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return captionTracksOf(playerResp)
}

func (f *TranscriptFetcher) fetchWatchPage(ctx context.Context, watchURL string) ([]byte, error) {
	if f.browser != nil {
		headers := engine.ChromeHeaders()
		headers["accept-language"] = "en-US,en;q=0.9"
		data, _, status, err := f.browser.Do("GET", watchURL, headers, nil)
		if err != nil {
			return nil, fmt.Errorf("watch page: %w", err)
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("watch page status %d", status)
		}
		return data, nil
	}

	resp, err := engine.RetryHTTP(ctx, f.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return f.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read watch page: %w", err)
	}
	return body, nil
}

// tracksFromPlayer uses the ANDROID Innertube /player endpoint.
func (f *TranscriptFetcher) tracksFromPlayer(ctx context.Context, videoID string) ([]captionTrack, error) {
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	resp, err := engine.RetryHTTP(ctx, f.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.playerURL+"?prettyPrint=false", bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", ytAndroidUA)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)
		return f.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("android innertube: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("android innertube status %d", resp.StatusCode)
	}

	var playerResp innertubePlayerResp
	if err := json.NewDecoder(resp.Body).Decode(&playerResp); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	return captionTracksOf(playerResp)
}

func captionTracksOf(resp innertubePlayerResp) ([]captionTrack, error) {
	if resp.Captions == nil {
		if resp.PlayabilityStatus != nil && resp.PlayabilityStatus.Reason != "" {
			return nil, fmt.Errorf("captions unavailable: %s", resp.PlayabilityStatus.Reason)
		}
		return nil, errors.New("no captions in player response")
	}
	tracks := resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, errors.New("no caption tracks")
	}
	return tracks, nil
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects the best usable caption track for the given language preferences.
// Skips tracks that require PoToken — those only work in a browser.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	// 1. Manual track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	// 2. Auto-generated track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	// 3. Any English track
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// fetchTimedText fetches and parses a YouTube timedtext XML caption URL.
func (f *TranscriptFetcher) fetchTimedText(ctx context.Context, baseURL string) ([]TranscriptEntry, error) {
	resp, err := engine.RetryHTTP(ctx, f.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return f.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return nil, err
	}
	return parseTimedText(body)
}

func parseTimedText(body []byte) ([]TranscriptEntry, error) {
	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}
	entries := make([]TranscriptEntry, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := engine.CleanCaption(line.Text)
		if text == "" {
			continue
		}
		start, _ := strconv.ParseFloat(line.Start, 64)
		dur, _ := strconv.ParseFloat(line.Dur, 64)
		entries = append(entries, TranscriptEntry{Text: text, Start: start, Duration: dur})
	}
	return entries, nil
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr, escaped := false, false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
		} else {
			switch c {
			case '"':
				inStr = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return b[:i+1]
				}
			}
		}
	}
	return nil
}
