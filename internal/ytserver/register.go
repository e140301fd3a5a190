package ytserver

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DataAPI is the subset of *sources.DataClient the tools call.
type DataAPI interface {
	SearchChannels(ctx context.Context, p sources.SearchParams) (sources.Envelope[sources.ChannelRecord], error)
	SearchPlaylists(ctx context.Context, p sources.SearchParams) (sources.Envelope[sources.PlaylistRecord], error)
	SearchVideos(ctx context.Context, p sources.SearchParams) (sources.Envelope[sources.VideoSummaryRecord], error)
	VideoDetails(ctx context.Context, ids []string, maxResults int) (sources.Envelope[sources.VideoDetailRecord], error)
	ChannelInfo(ctx context.Context, channelID string) (sources.ChannelRecord, error)
}

// Transcripts fetches caption entries for one video.
type Transcripts interface {
	Fetch(ctx context.Context, videoID string) ([]sources.TranscriptEntry, error)
}

// Tools binds the tool handlers to their upstream dependencies.
type Tools struct {
	data        DataAPI
	transcripts Transcripts
}

// NewTools wires handlers to data and transcripts. Either may be nil, in which
// case the tools depending on it are not registered.
func NewTools(data DataAPI, transcripts Transcripts) *Tools {
	return &Tools{data: data, transcripts: transcripts}
}

// RegisterTools registers the YouTube tools on the given MCP server and returns
// how many were added.
func (t *Tools) RegisterTools(server *mcp.Server) int {
	n := 0
	if t.data != nil {
		t.registerChannelInfo(server)
		t.registerSearchChannel(server)
		t.registerSearchPlaylist(server)
		t.registerSearchVideos(server)
		t.registerChannelVideos(server)
		t.registerVideoInfo(server)
		n += 6
	} else {
		slog.Warn("youtube data API not configured, search tools disabled")
	}
	registerExtractVideoID(server)
	n++
	if t.transcripts != nil {
		t.registerDownloadTranscript(server)
		n++
	}
	return n
}

// envelopeResult serializes env. When err is set but earlier pages produced
// records, the records are returned flagged as partial instead of failing.
func envelopeResult[T sources.Record](tool string, env sources.Envelope[T], err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		if env.Len() == 0 {
			slog.Warn(tool+": upstream error", slog.Any("error", err))
			return nil, nil, err
		}
		slog.Warn(tool+": returning partial results",
			slog.Int("records", env.Len()), slog.Any("error", err))
		env = env.WithError(err)
	}
	res, err := toolutil.JSONResult(env)
	if err != nil {
		return nil, nil, err
	}
	return res, nil, nil
}
