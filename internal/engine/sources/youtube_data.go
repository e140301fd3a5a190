package sources

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	ytapi "google.golang.org/api/youtube/v3"
)

// Data API parts requested per call shape.
var (
	searchParts        = []string{"snippet"}
	channelDetailParts = []string{"snippet", "statistics"}
	videoDetailParts   = []string{"snippet", "contentDetails", "statistics", "topicDetails", "paidProductPlacementDetails"}
)

var (
	// ErrInvalidChannelID is returned for channel ids that are neither UC… ids nor @handles.
	ErrInvalidChannelID = errors.New("channel id must start with 'UC' or '@'")
	// ErrChannelNotFound is returned when a channel lookup matches nothing.
	ErrChannelNotFound = errors.New("channel not found")
)

// SearchParams are the filters shared by the search-family operations.
// Empty strings are left out of the upstream request; dates pass through verbatim.
type SearchParams struct {
	Query           string
	ChannelID       string
	PublishedAfter  string
	PublishedBefore string
	RegionCode      string
	Order           string
	VideoDuration   string
	MaxResults      int
}

// DataClient runs the search and lookup operations against the YouTube Data API.
// The wrapped service is owned by the caller and safe for concurrent use.
type DataClient struct {
	svc *ytapi.Service
}

// NewDataClient wraps an authenticated Data API service.
func NewDataClient(svc *ytapi.Service) *DataClient {
	return &DataClient{svc: svc}
}

// SearchChannels searches for channels matching p.Query.
func (c *DataClient) SearchChannels(ctx context.Context, p SearchParams) (Envelope[ChannelRecord], error) {
	engine.IncrYouTubeSearch()
	env, err := Paginate(ctx, p.MaxResults, c.searchFetcher(p, "channel"), channelFromSearch)
	if err != nil {
		return env, fmt.Errorf("youtube search channels: %w", err)
	}
	return env, nil
}

// SearchPlaylists searches for playlists matching p.Query.
func (c *DataClient) SearchPlaylists(ctx context.Context, p SearchParams) (Envelope[PlaylistRecord], error) {
	engine.IncrYouTubeSearch()
	env, err := Paginate(ctx, p.MaxResults, c.searchFetcher(p, "playlist"), playlistFromSearch)
	if err != nil {
		return env, fmt.Errorf("youtube search playlists: %w", err)
	}
	return env, nil
}

// SearchVideos searches for videos matching p.Query, or every upload of
// p.ChannelID when it is set.
func (c *DataClient) SearchVideos(ctx context.Context, p SearchParams) (Envelope[VideoSummaryRecord], error) {
	engine.IncrYouTubeSearch()
	env, err := Paginate(ctx, p.MaxResults, c.searchFetcher(p, "video"), videoFromSearch)
	if err != nil {
		return env, fmt.Errorf("youtube search videos: %w", err)
	}
	return env, nil
}

// VideoDetails looks up full metadata for ids, at most maxResults of them.
func (c *DataClient) VideoDetails(ctx context.Context, ids []string, maxResults int) (Envelope[VideoDetailRecord], error) {
	engine.IncrYouTubeDetail()
	if len(ids) == 0 {
		return NewEnvelope[VideoDetailRecord](0, nil), nil
	}
	env, err := Paginate(ctx, maxResults, c.videoDetailFetcher(ids), videoFromDetail)
	if err != nil {
		return env, fmt.Errorf("youtube video details: %w", err)
	}
	return env, nil
}

// ChannelInfo looks up one channel by UC… id or @handle.
func (c *DataClient) ChannelInfo(ctx context.Context, channelID string) (ChannelRecord, error) {
	byHandle, err := ClassifyChannelID(channelID)
	if err != nil {
		return ChannelRecord{}, err
	}
	engine.IncrYouTubeDetail()
	engine.IncrYouTubePage()

	call := c.svc.Channels.List(channelDetailParts).Context(ctx)
	if byHandle {
		call = call.ForHandle(channelID)
	} else {
		call = call.Id(channelID)
	}
	resp, err := call.Do()
	if err != nil {
		engine.IncrYouTubeUpstreamError()
		return ChannelRecord{}, fmt.Errorf("youtube channel info: %w", err)
	}
	if len(resp.Items) == 0 {
		return ChannelRecord{}, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}
	return channelFromDetail(resp.Items[0])
}

// ClassifyChannelID reports whether id is an @handle (true) or a UC… channel id (false).
func ClassifyChannelID(id string) (byHandle bool, err error) {
	switch {
	case strings.HasPrefix(id, "@") && len(id) > 1:
		return true, nil
	case strings.HasPrefix(id, "UC") && len(id) > 2:
		return false, nil
	}
	return false, ErrInvalidChannelID
}

func (c *DataClient) searchFetcher(p SearchParams, resourceType string) PageFetcher[*ytapi.SearchResult] {
	return func(ctx context.Context, pageToken string, pageSize int64) (Page[*ytapi.SearchResult], error) {
		call := c.svc.Search.List(searchParts).
			Type(resourceType).
			MaxResults(pageSize).
			Context(ctx)
		if p.Query != "" {
			call = call.Q(p.Query)
		}
		if p.ChannelID != "" {
			call = call.ChannelId(p.ChannelID)
		}
		if p.PublishedAfter != "" {
			call = call.PublishedAfter(p.PublishedAfter)
		}
		if p.PublishedBefore != "" {
			call = call.PublishedBefore(p.PublishedBefore)
		}
		if p.RegionCode != "" {
			call = call.RegionCode(p.RegionCode)
		}
		if p.Order != "" {
			call = call.Order(p.Order)
		}
		if resourceType == "video" && p.VideoDuration != "" {
			call = call.VideoDuration(p.VideoDuration)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return Page[*ytapi.SearchResult]{}, err
		}
		page := Page[*ytapi.SearchResult]{Items: resp.Items, NextPageToken: resp.NextPageToken}
		if resp.PageInfo != nil {
			page.TotalResults = resp.PageInfo.TotalResults
			page.HasTotal = true
		}
		return page, nil
	}
}

// videoDetailFetcher batches ids into pageSize chunks. The videos endpoint
// issues no cursor for id lookups, so the cursor is the next chunk offset and
// the total is the sum of the per-batch pageInfo totals.
func (c *DataClient) videoDetailFetcher(ids []string) PageFetcher[*ytapi.Video] {
	var found int64
	return func(ctx context.Context, pageToken string, pageSize int64) (Page[*ytapi.Video], error) {
		offset := 0
		if pageToken != "" {
			n, err := strconv.Atoi(pageToken)
			if err != nil || n < 0 || n > len(ids) {
				return Page[*ytapi.Video]{}, fmt.Errorf("bad detail cursor %q", pageToken)
			}
			offset = n
		}
		end := min(offset+int(pageSize), len(ids))

		resp, err := c.svc.Videos.List(videoDetailParts).
			Id(ids[offset:end]...).
			Context(ctx).
			Do()
		if err != nil {
			return Page[*ytapi.Video]{}, err
		}
		page := Page[*ytapi.Video]{Items: resp.Items}
		if resp.PageInfo != nil {
			found += resp.PageInfo.TotalResults
			page.TotalResults = found
			page.HasTotal = true
		}
		if end < len(ids) {
			page.NextPageToken = strconv.Itoa(end)
		}
		return page, nil
	}
}
