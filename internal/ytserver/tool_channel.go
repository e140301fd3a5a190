package ytserver

import (
	"context"
	"errors"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ChannelInfoInput struct {
	ChannelID string `json:"channel_id" jsonschema:"Channel ID (starts with UC) or handle (starts with @)"`
}

func (t *Tools) registerChannelInfo(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_channel_info",
		Description: "Get details for a YouTube channel by ID (UC...) or handle (@name). Returns JSON {channel_id, channel_title, description, published_at, country, view_count, subscriber_count, video_count}.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.channelInfo)
}

func (t *Tools) channelInfo(ctx context.Context, _ *mcp.CallToolRequest, input ChannelInfoInput) (*mcp.CallToolResult, any, error) {
	id := strings.TrimSpace(input.ChannelID)
	if _, err := sources.ClassifyChannelID(id); err != nil {
		return toolutil.TextResult("Invalid channel ID: must start with 'UC' or '@'"), nil, nil
	}

	var rec sources.ChannelRecord
	err := engine.TrackOperation(ctx, "get_channel_info", func(ctx context.Context) error {
		var err error
		rec, err = t.data.ChannelInfo(ctx, id)
		return err
	})
	switch {
	case errors.Is(err, sources.ErrChannelNotFound):
		return toolutil.TextResult("Channel not found: " + id), nil, nil
	case err != nil:
		return nil, nil, err
	}
	res, err := toolutil.JSONResult(rec)
	if err != nil {
		return nil, nil, err
	}
	return res, nil, nil
}
