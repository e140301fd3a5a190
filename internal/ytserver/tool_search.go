package ytserver

import (
	"context"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultRegion = "US"
	defaultMax    = sources.DefaultMaxResults
)

type SearchChannelInput struct {
	ChannelName     string `json:"channel_name" jsonschema:"Channel name or keywords to search for"`
	PublishedAfter  string `json:"published_after,omitempty" jsonschema:"Only channels created after this RFC 3339 timestamp (e.g. 2024-01-01T00:00:00Z)"`
	PublishedBefore string `json:"published_before,omitempty" jsonschema:"Only channels created before this RFC 3339 timestamp"`
	RegionCode      string `json:"region_code,omitempty" jsonschema:"ISO 3166-1 alpha-2 region code (default: US)"`
	Order           string `json:"order,omitempty" jsonschema:"Sort order: date, rating, relevance, title, videoCount, viewCount (default: relevance)"`
	MaxResults      int    `json:"max_results,omitempty" jsonschema:"Number of channels to return (default: 50). Values above 50 page through results."`
}

type SearchPlaylistInput struct {
	Query           string `json:"query" jsonschema:"Search keywords"`
	PublishedAfter  string `json:"published_after,omitempty" jsonschema:"Only playlists created after this RFC 3339 timestamp"`
	PublishedBefore string `json:"published_before,omitempty" jsonschema:"Only playlists created before this RFC 3339 timestamp"`
	RegionCode      string `json:"region_code,omitempty" jsonschema:"ISO 3166-1 alpha-2 region code (default: US)"`
	Order           string `json:"order,omitempty" jsonschema:"Sort order: date, rating, relevance, title, videoCount, viewCount (default: date)"`
	MaxResults      int    `json:"max_results,omitempty" jsonschema:"Number of playlists to return (default: 50). Values above 50 page through results."`
}

type SearchVideosInput struct {
	Query           string `json:"query" jsonschema:"Search keywords"`
	PublishedAfter  string `json:"published_after,omitempty" jsonschema:"Only videos published after this RFC 3339 timestamp"`
	PublishedBefore string `json:"published_before,omitempty" jsonschema:"Only videos published before this RFC 3339 timestamp"`
	RegionCode      string `json:"region_code,omitempty" jsonschema:"ISO 3166-1 alpha-2 region code (default: US)"`
	VideoDuration   string `json:"video_duration,omitempty" jsonschema:"Duration filter: any, short (<4m), medium (4-20m), long (>20m) (default: any)"`
	Order           string `json:"order,omitempty" jsonschema:"Sort order: date, rating, relevance, title, viewCount (default: date)"`
	MaxResults      int    `json:"max_results,omitempty" jsonschema:"Number of videos to return (default: 50). Values above 50 page through results."`
}

type ChannelVideosInput struct {
	ChannelID       string `json:"channel_id" jsonschema:"Channel ID (starts with UC)"`
	PublishedAfter  string `json:"published_after,omitempty" jsonschema:"Only videos published after this RFC 3339 timestamp"`
	PublishedBefore string `json:"published_before,omitempty" jsonschema:"Only videos published before this RFC 3339 timestamp"`
	Order           string `json:"order,omitempty" jsonschema:"Sort order: date, rating, relevance, title, viewCount (default: date)"`
	MaxResults      int    `json:"max_results,omitempty" jsonschema:"Number of videos to return (default: 50). Values above 50 page through results."`
}

func (t *Tools) registerSearchChannel(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_channel",
		Description: "Search for YouTube channels by name. Returns JSON {total_results, channels:[{channel_id, channel_title, description, published_at}]}. total_results is YouTube's estimate of all matches, not the number returned.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.searchChannel)
}

func (t *Tools) searchChannel(ctx context.Context, _ *mcp.CallToolRequest, input SearchChannelInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.ChannelName) == "" {
		return toolutil.TextResult("channel_name is required"), nil, nil
	}
	p := sources.SearchParams{
		Query:           input.ChannelName,
		PublishedAfter:  input.PublishedAfter,
		PublishedBefore: input.PublishedBefore,
		RegionCode:      toolutil.Or(input.RegionCode, defaultRegion),
		Order:           toolutil.Or(input.Order, "relevance"),
		MaxResults:      toolutil.NormMaxResults(input.MaxResults, defaultMax),
	}
	var env sources.Envelope[sources.ChannelRecord]
	err := engine.TrackOperation(ctx, "search_channel", func(ctx context.Context) error {
		var err error
		env, err = t.data.SearchChannels(ctx, p)
		return err
	})
	return envelopeResult("search_channel", env, err)
}

func (t *Tools) registerSearchPlaylist(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_playlist",
		Description: "Search for YouTube playlists. Returns JSON {total_results, playlists:[{playlist_id, playlist_title, channel_id, description, published_at}]}.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.searchPlaylist)
}

func (t *Tools) searchPlaylist(ctx context.Context, _ *mcp.CallToolRequest, input SearchPlaylistInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.Query) == "" {
		return toolutil.TextResult("query is required"), nil, nil
	}
	p := sources.SearchParams{
		Query:           input.Query,
		PublishedAfter:  input.PublishedAfter,
		PublishedBefore: input.PublishedBefore,
		RegionCode:      toolutil.Or(input.RegionCode, defaultRegion),
		Order:           toolutil.Or(input.Order, "date"),
		MaxResults:      toolutil.NormMaxResults(input.MaxResults, defaultMax),
	}
	var env sources.Envelope[sources.PlaylistRecord]
	err := engine.TrackOperation(ctx, "search_playlist", func(ctx context.Context) error {
		var err error
		env, err = t.data.SearchPlaylists(ctx, p)
		return err
	})
	return envelopeResult("search_playlist", env, err)
}

func (t *Tools) registerSearchVideos(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_videos",
		Description: "Search for YouTube videos. Returns JSON {total_results, videos:[{channel_id, channel_title, video_id, video_title, description, published_at}]}. Use get_video_info for tags, duration and statistics.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.searchVideos)
}

func (t *Tools) searchVideos(ctx context.Context, _ *mcp.CallToolRequest, input SearchVideosInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.Query) == "" {
		return toolutil.TextResult("query is required"), nil, nil
	}
	p := sources.SearchParams{
		Query:           input.Query,
		PublishedAfter:  input.PublishedAfter,
		PublishedBefore: input.PublishedBefore,
		RegionCode:      toolutil.Or(input.RegionCode, defaultRegion),
		VideoDuration:   toolutil.Or(input.VideoDuration, "any"),
		Order:           toolutil.Or(input.Order, "date"),
		MaxResults:      toolutil.NormMaxResults(input.MaxResults, defaultMax),
	}
	var env sources.Envelope[sources.VideoSummaryRecord]
	err := engine.TrackOperation(ctx, "search_videos", func(ctx context.Context) error {
		var err error
		env, err = t.data.SearchVideos(ctx, p)
		return err
	})
	return envelopeResult("search_videos", env, err)
}

func (t *Tools) registerChannelVideos(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_channel_videos",
		Description: "List videos uploaded by a YouTube channel, newest first by default. Returns JSON {total_results, videos:[{channel_id, channel_title, video_id, video_title, description, published_at}]}.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.channelVideos)
}

func (t *Tools) channelVideos(ctx context.Context, _ *mcp.CallToolRequest, input ChannelVideosInput) (*mcp.CallToolResult, any, error) {
	id := strings.TrimSpace(input.ChannelID)
	if byHandle, err := sources.ClassifyChannelID(id); err != nil || byHandle {
		return toolutil.TextResult("Invalid channel ID: must start with 'UC'"), nil, nil
	}
	p := sources.SearchParams{
		ChannelID:       id,
		PublishedAfter:  input.PublishedAfter,
		PublishedBefore: input.PublishedBefore,
		Order:           toolutil.Or(input.Order, "date"),
		MaxResults:      toolutil.NormMaxResults(input.MaxResults, defaultMax),
	}
	var env sources.Envelope[sources.VideoSummaryRecord]
	err := engine.TrackOperation(ctx, "get_channel_videos", func(ctx context.Context) error {
		var err error
		env, err = t.data.SearchVideos(ctx, p)
		return err
	})
	return envelopeResult("get_channel_videos", env, err)
}
