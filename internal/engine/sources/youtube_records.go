package sources

// Kind is the JSON key a record type is listed under in an Envelope.
// Video summaries and video details share "videos".
type Kind string

const (
	KindChannel     Kind = "channels"
	KindPlaylist    Kind = "playlists"
	KindVideo       Kind = "videos"
	KindVideoDetail Kind = "videos"
)

// Record is implemented by the four normalized record types.
type Record interface {
	Kind() Kind
}

// ChannelRecord is a channel from a search result or a channel detail lookup.
// ChannelDetail is only set for detail lookups.
type ChannelRecord struct {
	ChannelID    string `json:"channel_id"`
	ChannelTitle string `json:"channel_title"`
	Description  string `json:"description"`
	PublishedAt  string `json:"published_at"`
	*ChannelDetail
}

// ChannelDetail holds the fields only the channels endpoint returns.
type ChannelDetail struct {
	Country         string `json:"country"`
	ViewCount       uint64 `json:"view_count"`
	SubscriberCount uint64 `json:"subscriber_count"`
	VideoCount      uint64 `json:"video_count"`
}

func (ChannelRecord) Kind() Kind { return KindChannel }

type PlaylistRecord struct {
	PlaylistID    string `json:"playlist_id"`
	PlaylistTitle string `json:"playlist_title"`
	ChannelID     string `json:"channel_id"`
	Description   string `json:"description"`
	PublishedAt   string `json:"published_at"`
}

func (PlaylistRecord) Kind() Kind { return KindPlaylist }

// VideoSummaryRecord carries the snippet fields a search result exposes.
type VideoSummaryRecord struct {
	ChannelID    string `json:"channel_id"`
	ChannelTitle string `json:"channel_title"`
	VideoID      string `json:"video_id"`
	VideoTitle   string `json:"video_title"`
	Description  string `json:"description"`
	PublishedAt  string `json:"published_at"`
}

func (VideoSummaryRecord) Kind() Kind { return KindVideo }

// VideoDetailRecord is produced only by the videos endpoint.
type VideoDetailRecord struct {
	VideoSummaryRecord
	Tags                    []string `json:"tags"`
	Duration                string   `json:"duration"`
	Dimension               string   `json:"dimension"`
	ViewCount               uint64   `json:"view_count"`
	LikeCount               uint64   `json:"like_count"`
	CommentCount            uint64   `json:"comment_count"`
	TopicCategories         []string `json:"topic_categories"`
	HasPaidProductPlacement bool     `json:"has_paid_product_placement"`
}

func (VideoDetailRecord) Kind() Kind { return KindVideoDetail }
