package ytserver

import (
	"context"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type TranscriptInput struct {
	VideoID          string `json:"video_id" jsonschema:"YouTube video URL or 11-character video ID"`
	IncludeTimestamp bool   `json:"include_timestamp,omitempty" jsonschema:"Return a JSON list of {text, start, duration} instead of plain text (default: false)"`
}

func (t *Tools) registerDownloadTranscript(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "download_transcript",
		Description: "Download the caption transcript of a YouTube video. Returns plain text, one caption per line, or a JSON list of {text, start, duration} when include_timestamp is true.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.downloadTranscript)
}

func (t *Tools) downloadTranscript(ctx context.Context, _ *mcp.CallToolRequest, input TranscriptInput) (*mcp.CallToolResult, any, error) {
	id, ok := sources.ExtractVideoID(input.VideoID)
	if !ok {
		return toolutil.TextResult("Invalid Youtube Video ID or URL"), nil, nil
	}

	var entries []sources.TranscriptEntry
	err := engine.TrackOperation(ctx, "download_transcript", func(ctx context.Context) error {
		var err error
		entries, err = t.transcripts.Fetch(ctx, id)
		return err
	})
	if err != nil {
		return toolutil.TextResult("Error Downloading Transcript: " + err.Error()), nil, nil
	}
	text, err := sources.FormatTranscript(entries, input.IncludeTimestamp)
	if err != nil {
		return toolutil.TextResult("Error Downloading Transcript: " + err.Error()), nil, nil
	}
	return toolutil.TextResult(text), nil, nil
}
