package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	YouTubeSearchRequests     atomic.Int64
	YouTubePageRequests       atomic.Int64
	YouTubeDetailRequests     atomic.Int64
	YouTubeItemsSkipped       atomic.Int64
	YouTubeUpstreamErrors     atomic.Int64
	YouTubeTranscriptRequests atomic.Int64
	YouTubeTranscriptErrors   atomic.Int64
}

var metricKeys = []string{
	"youtube_search_requests",
	"youtube_page_requests",
	"youtube_detail_requests",
	"youtube_items_skipped",
	"youtube_upstream_errors",
	"youtube_transcript_requests",
	"youtube_transcript_errors",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"youtube_search_requests":     metrics.YouTubeSearchRequests.Load(),
		"youtube_page_requests":       metrics.YouTubePageRequests.Load(),
		"youtube_detail_requests":     metrics.YouTubeDetailRequests.Load(),
		"youtube_items_skipped":       metrics.YouTubeItemsSkipped.Load(),
		"youtube_upstream_errors":     metrics.YouTubeUpstreamErrors.Load(),
		"youtube_transcript_requests": metrics.YouTubeTranscriptRequests.Load(),
		"youtube_transcript_errors":   metrics.YouTubeTranscriptErrors.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ sub-package.
func IncrYouTubeSearch()          { metrics.YouTubeSearchRequests.Add(1) }
func IncrYouTubePage()            { metrics.YouTubePageRequests.Add(1) }
func IncrYouTubeDetail()          { metrics.YouTubeDetailRequests.Add(1) }
func IncrYouTubeSkipped()         { metrics.YouTubeItemsSkipped.Add(1) }
func IncrYouTubeUpstreamError()   { metrics.YouTubeUpstreamErrors.Add(1) }
func IncrYouTubeTranscript()      { metrics.YouTubeTranscriptRequests.Add(1) }
func IncrYouTubeTranscriptError() { metrics.YouTubeTranscriptErrors.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
