package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

var errNoCredentials = errors.New("youtube: set YOUTUBE_API_KEY or YOUTUBE_CREDENTIALS_FILE")

// NewYouTubeService builds a Data API v3 service from the configured credentials.
// An API key wins over a service-account file when both are set.
func NewYouTubeService(ctx context.Context, cfg engine.Config, extra ...option.ClientOption) (*ytapi.Service, error) {
	var opts []option.ClientOption
	switch {
	case cfg.YouTubeAPIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.YouTubeAPIKey))
		slog.Info("youtube: using API key credentials")
	case cfg.YouTubeCredentialsFile != "":
		opts = append(opts,
			option.WithCredentialsFile(cfg.YouTubeCredentialsFile),
			option.WithScopes(ytapi.YoutubeReadonlyScope),
		)
		slog.Info("youtube: using service account credentials", slog.String("file", cfg.YouTubeCredentialsFile))
	default:
		return nil, errNoCredentials
	}
	opts = append(opts, extra...)

	svc, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return svc, nil
}
