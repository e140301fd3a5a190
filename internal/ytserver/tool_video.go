package ytserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/toolutil"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StringList accepts either a JSON string or an array of strings. A single
// string may hold several comma-separated values.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = splitList(one)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	out := make([]string, 0, len(many))
	for _, s := range many {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type VideoInfoInput struct {
	VideoIDs   StringList `json:"video_ids"`
	MaxResults int        `json:"max_results,omitempty"`
}

// videoInfoSchema is written by hand because StringList has no single JSON type.
var videoInfoSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"video_ids": {
			Description: "Video ID or URL, a comma-separated list, or an array of IDs/URLs",
			AnyOf: []*jsonschema.Schema{
				{Type: "string"},
				{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			},
		},
		"max_results": {
			Type:        "integer",
			Description: "Maximum number of videos to return (default: 50)",
		},
	},
	Required: []string{"video_ids"},
}

func (t *Tools) registerVideoInfo(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_video_info",
		Description: "Get full metadata for one or more YouTube videos by ID or URL. Returns JSON {total_results, videos:[{video_id, video_title, channel_id, channel_title, description, published_at, tags, duration, dimension, view_count, like_count, comment_count, topic_categories, has_paid_product_placement}]}.",
		InputSchema: videoInfoSchema,
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.videoInfo)
}

func (t *Tools) videoInfo(ctx context.Context, _ *mcp.CallToolRequest, input VideoInfoInput) (*mcp.CallToolResult, any, error) {
	if len(input.VideoIDs) == 0 {
		return toolutil.TextResult("video_ids is required"), nil, nil
	}
	ids, bad, ok := sources.ExtractVideoIDs(input.VideoIDs)
	if !ok {
		return toolutil.TextResult("Invalid Youtube Video ID or URL: " + bad), nil, nil
	}
	maxResults := toolutil.NormMaxResults(input.MaxResults, defaultMax)

	var env sources.Envelope[sources.VideoDetailRecord]
	err := engine.TrackOperation(ctx, "get_video_info", func(ctx context.Context) error {
		var err error
		env, err = t.data.VideoDetails(ctx, ids, maxResults)
		return err
	})
	return envelopeResult("get_video_info", env, err)
}

type ExtractVideoIDInput struct {
	Input string `json:"input" jsonschema:"YouTube URL (watch, youtu.be, embed, shorts, live) or bare 11-character video ID"`
}

func registerExtractVideoID(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_video_id",
		Description: "Extract the 11-character video ID from a YouTube URL or ID. Returns the ID, or \"No video ID found\".",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, extractVideoID)
}

func extractVideoID(_ context.Context, _ *mcp.CallToolRequest, input ExtractVideoIDInput) (*mcp.CallToolResult, any, error) {
	id, ok := sources.ExtractVideoID(input.Input)
	if !ok {
		return toolutil.TextResult("No video ID found"), nil, nil
	}
	return toolutil.TextResult(id), nil, nil
}
