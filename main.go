// go_youtube — YouTube search, metadata & transcript MCP server.
//
// Exposes eight MCP tools over the YouTube Data API v3 plus caption
// scraping: search_channel, search_playlist, search_videos,
// get_channel_videos, get_channel_info, get_video_info, extract_video_id,
// download_transcript.
// Runs as HTTP MCP server or stdio transport (MCP_TRANSPORT=stdio).
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/ytserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version      = "dev"
	mcpPort      = env.Str("MCP_PORT", "8893")
	mcpTransport = env.Str("MCP_TRANSPORT", "http")
)

func main() {
	cfg := loadConfig()

	slog.Info("starting go_youtube",
		slog.String("port", mcpPort),
		slog.String("transport", mcpTransport),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_youtube",
		Version: version,
	}, nil)

	tools := ytserver.NewTools(newDataClient(cfg), sources.NewTranscriptFetcher(cfg))
	slog.Info("tools registered", slog.Int("count", tools.RegisterTools(server)))

	if mcpTransport == "stdio" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
			slog.Error("server failed", slog.Any("error", err))
		}
		return
	}

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_youtube",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 300 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func loadConfig() engine.Config {
	timeout := env.Duration("FETCH_TIMEOUT", 15*time.Second)
	c := engine.Config{
		YouTubeAPIKey:          env.Str("YOUTUBE_API_KEY", ""),
		YouTubeCredentialsFile: env.Str("YOUTUBE_CREDENTIALS_FILE", ""),
		TranscriptLangs:        env.List("YOUTUBE_TRANSCRIPT_LANGS", "en"),
		FetchTimeout:           timeout,
		HTTPClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	var opts []stealth.ClientOption
	opts = append(opts, stealth.WithTimeout(15))

	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Error("stealth client init failed", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("stealth browser client initialized")
	}
	return c
}

// newDataClient returns nil when no credentials are configured, which leaves
// only the scraping tools registered.
func newDataClient(cfg engine.Config) ytserver.DataAPI {
	if !cfg.HasCredentials() {
		slog.Warn("no YOUTUBE_API_KEY or YOUTUBE_CREDENTIALS_FILE set")
		return nil
	}
	svc, err := sources.NewYouTubeService(context.Background(), cfg)
	if err != nil {
		slog.Error("youtube service init failed", slog.Any("error", err))
		return nil
	}
	return sources.NewDataClient(svc)
}
