package sources

import (
	"errors"
	"fmt"

	ytapi "google.golang.org/api/youtube/v3"
)

// ErrMissingField is matched by every *MissingFieldError.
var ErrMissingField = errors.New("missing required field")

// MissingFieldError reports an upstream item without an identity field.
// Optional fields never produce it; they fall back to zero values.
type MissingFieldError struct {
	Kind  Kind
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s item: %s: %s", e.Kind, ErrMissingField, e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

func missing(kind Kind, field string) error {
	return &MissingFieldError{Kind: kind, Field: field}
}

// Search results keep the matched resource id under id.{channelId,playlistId,videoId};
// snippet.channelId is the owner, which for a channel hit repeats the id.

func channelFromSearch(item *ytapi.SearchResult) (ChannelRecord, error) {
	if item == nil || item.Id == nil || item.Id.ChannelId == "" {
		return ChannelRecord{}, missing(KindChannel, "id.channelId")
	}
	rec := ChannelRecord{ChannelID: item.Id.ChannelId}
	if s := item.Snippet; s != nil {
		rec.ChannelTitle = s.Title
		rec.Description = s.Description
		rec.PublishedAt = s.PublishedAt
	}
	return rec, nil
}

func playlistFromSearch(item *ytapi.SearchResult) (PlaylistRecord, error) {
	if item == nil || item.Id == nil || item.Id.PlaylistId == "" {
		return PlaylistRecord{}, missing(KindPlaylist, "id.playlistId")
	}
	if item.Snippet == nil || item.Snippet.ChannelId == "" {
		return PlaylistRecord{}, missing(KindPlaylist, "snippet.channelId")
	}
	s := item.Snippet
	return PlaylistRecord{
		PlaylistID:    item.Id.PlaylistId,
		PlaylistTitle: s.Title,
		ChannelID:     s.ChannelId,
		Description:   s.Description,
		PublishedAt:   s.PublishedAt,
	}, nil
}

func videoFromSearch(item *ytapi.SearchResult) (VideoSummaryRecord, error) {
	if item == nil || item.Id == nil || item.Id.VideoId == "" {
		return VideoSummaryRecord{}, missing(KindVideo, "id.videoId")
	}
	if item.Snippet == nil || item.Snippet.ChannelId == "" {
		return VideoSummaryRecord{}, missing(KindVideo, "snippet.channelId")
	}
	s := item.Snippet
	return VideoSummaryRecord{
		ChannelID:    s.ChannelId,
		ChannelTitle: s.ChannelTitle,
		VideoID:      item.Id.VideoId,
		VideoTitle:   s.Title,
		Description:  s.Description,
		PublishedAt:  s.PublishedAt,
	}, nil
}

// List/detail resources keep their own id at the top level.

func channelFromDetail(item *ytapi.Channel) (ChannelRecord, error) {
	if item == nil || item.Id == "" {
		return ChannelRecord{}, missing(KindChannel, "id")
	}
	rec := ChannelRecord{ChannelID: item.Id, ChannelDetail: &ChannelDetail{}}
	if s := item.Snippet; s != nil {
		rec.ChannelTitle = s.Title
		rec.Description = s.Description
		rec.PublishedAt = s.PublishedAt
		rec.Country = s.Country
	}
	if st := item.Statistics; st != nil {
		rec.ViewCount = st.ViewCount
		rec.SubscriberCount = st.SubscriberCount
		rec.VideoCount = st.VideoCount
	}
	return rec, nil
}

func videoFromDetail(item *ytapi.Video) (VideoDetailRecord, error) {
	if item == nil || item.Id == "" {
		return VideoDetailRecord{}, missing(KindVideoDetail, "id")
	}
	if item.Snippet == nil || item.Snippet.ChannelId == "" {
		return VideoDetailRecord{}, missing(KindVideoDetail, "snippet.channelId")
	}
	s := item.Snippet
	rec := VideoDetailRecord{
		VideoSummaryRecord: VideoSummaryRecord{
			ChannelID:    s.ChannelId,
			ChannelTitle: s.ChannelTitle,
			VideoID:      item.Id,
			VideoTitle:   s.Title,
			Description:  s.Description,
			PublishedAt:  s.PublishedAt,
		},
		Tags:            nonNil(s.Tags),
		TopicCategories: []string{},
	}
	if cd := item.ContentDetails; cd != nil {
		rec.Duration = cd.Duration
		rec.Dimension = cd.Dimension
	}
	if st := item.Statistics; st != nil {
		rec.ViewCount = st.ViewCount
		rec.LikeCount = st.LikeCount
		rec.CommentCount = st.CommentCount
	}
	if td := item.TopicDetails; td != nil {
		rec.TopicCategories = nonNil(td.TopicCategories)
	}
	if pp := item.PaidProductPlacementDetails; pp != nil {
		rec.HasPaidProductPlacement = pp.HasPaidProductPlacement
	}
	return rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
