package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

const (
	// MaxPageSize is the Data API's per-request maxResults ceiling.
	MaxPageSize = 50
	// DefaultMaxResults applies when a caller passes zero or a negative count.
	DefaultMaxResults = 50
)

// Page is one upstream response: raw items plus the continuation cursor.
// HasTotal is false when the response carried no pageInfo.
type Page[R any] struct {
	Items         []R
	NextPageToken string
	TotalResults  int64
	HasTotal      bool
}

// PageFetcher issues one upstream request. pageToken is empty for the first page.
type PageFetcher[R any] func(ctx context.Context, pageToken string, pageSize int64) (Page[R], error)

// Paginate walks fetch until maxResults upstream items are consumed or the
// upstream stops returning a cursor. Each request asks for at most MaxPageSize
// items, so maxResults <= MaxPageSize is always a single request.
//
// Items rejected with ErrMissingField are skipped but still count against
// maxResults. On an upstream error the returned envelope still holds everything
// collected from earlier pages.
func Paginate[R any, T Record](ctx context.Context, maxResults int, fetch PageFetcher[R], normalize func(R) (T, error)) (Envelope[T], error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	var kind T
	records := make([]T, 0, min(maxResults, MaxPageSize))
	var total int64
	consumed := 0
	token := ""

	for pageNum := 1; ; pageNum++ {
		size := min(MaxPageSize, maxResults-consumed)
		engine.IncrYouTubePage()
		page, err := fetch(ctx, token, int64(size))
		if err != nil {
			engine.IncrYouTubeUpstreamError()
			return NewEnvelope(total, records), fmt.Errorf("page %d: %w", pageNum, err)
		}
		if page.HasTotal {
			total = page.TotalResults
		}

		for _, item := range page.Items {
			if consumed >= maxResults {
				break
			}
			consumed++
			rec, err := normalize(item)
			if errors.Is(err, ErrMissingField) {
				engine.IncrYouTubeSkipped()
				slog.Warn("youtube: skipping item", slog.Int("page", pageNum), slog.Any("error", err))
				continue
			}
			if err != nil {
				return NewEnvelope(total, records), fmt.Errorf("page %d: normalize: %w", pageNum, err)
			}
			records = append(records, rec)
		}

		slog.Debug("youtube: page collected",
			slog.String("kind", string(kind.Kind())),
			slog.Int("page", pageNum),
			slog.Int("items", len(page.Items)),
			slog.Int("collected", len(records)),
			slog.Int("max", maxResults))

		if consumed >= maxResults || page.NextPageToken == "" {
			break
		}
		if page.NextPageToken == token {
			slog.Warn("youtube: upstream repeated page token, stopping", slog.Int("page", pageNum))
			break
		}
		token = page.NextPageToken
	}
	return NewEnvelope(total, records), nil
}
