package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// fakeDataAPI is a minimal YouTube Data API v3 stand-in recording every query.
type fakeDataAPI struct {
	mu      sync.Mutex
	queries []url.Values
	paths   []string
	handler func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeDataAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.queries = append(f.queries, r.URL.Query())
	f.paths = append(f.paths, r.URL.Path)
	f.mu.Unlock()
	f.handler(w, r)
}

func newTestDataClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*DataClient, *fakeDataAPI) {
	t.Helper()
	fake := &fakeDataAPI{handler: handler}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := ytapi.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return NewDataClient(svc), fake
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func searchPage(kind string, ids []string, next string, total int) map[string]any {
	items := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		idObj := map[string]any{"kind": "youtube#" + kind}
		switch kind {
		case "channel":
			idObj["channelId"] = id
		case "playlist":
			idObj["playlistId"] = id
		default:
			idObj["videoId"] = id
		}
		items = append(items, map[string]any{
			"id": idObj,
			"snippet": map[string]any{
				"channelId":    "UCowner",
				"channelTitle": "Owner",
				"title":        "title " + id,
				"description":  "desc " + id,
				"publishedAt":  "2024-05-01T00:00:00Z",
			},
		})
	}
	resp := map[string]any{
		"items":    items,
		"pageInfo": map[string]any{"totalResults": total, "resultsPerPage": len(ids)},
	}
	if next != "" {
		resp["nextPageToken"] = next
	}
	return resp
}

func ids(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%03d", prefix, i)
	}
	return out
}

func TestSearchVideos_PaginatesWithFilters(t *testing.T) {
	client, fake := newTestDataClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("pageToken") {
		case "":
			writeJSON(t, w, searchPage("video", ids("a", 50), "NEXT1", 5000))
		case "NEXT1":
			writeJSON(t, w, searchPage("video", ids("b", 50), "NEXT2", 5000))
		default:
			writeJSON(t, w, searchPage("video", ids("c", 12), "", 5000))
		}
	})

	env, err := client.SearchVideos(context.Background(), SearchParams{
		Query:           "golang",
		PublishedAfter:  "2024-01-01T00:00:00Z",
		PublishedBefore: "2024-12-31T00:00:00Z",
		RegionCode:      "US",
		Order:           "date",
		VideoDuration:   "medium",
		MaxResults:      200,
	})
	require.NoError(t, err)
	assert.Equal(t, 112, env.Len())
	assert.Equal(t, int64(5000), env.TotalResults)
	require.Len(t, fake.queries, 3)

	q := fake.queries[0]
	assert.True(t, strings.HasSuffix(fake.paths[0], "/search"))
	assert.Equal(t, "golang", q.Get("q"))
	assert.Equal(t, "video", q.Get("type"))
	assert.Equal(t, "50", q.Get("maxResults"))
	assert.Equal(t, "2024-01-01T00:00:00Z", q.Get("publishedAfter"))
	assert.Equal(t, "2024-12-31T00:00:00Z", q.Get("publishedBefore"))
	assert.Equal(t, "US", q.Get("regionCode"))
	assert.Equal(t, "date", q.Get("order"))
	assert.Equal(t, "medium", q.Get("videoDuration"))
	assert.Equal(t, "NEXT2", fake.queries[2].Get("pageToken"))
}

func TestSearchChannels_NoDurationFilter(t *testing.T) {
	client, fake := newTestDataClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, searchPage("channel", []string{"UC1", "UC2"}, "", 2))
	})

	env, err := client.SearchChannels(context.Background(), SearchParams{
		Query: "gophers", RegionCode: "US", Order: "relevance", VideoDuration: "long", MaxResults: 10,
	})
	require.NoError(t, err)
	require.Equal(t, 2, env.Len())
	assert.Equal(t, "UC1", env.Records[0].ChannelID)
	assert.Equal(t, "title UC1", env.Records[0].ChannelTitle)
	assert.Nil(t, env.Records[0].ChannelDetail)

	q := fake.queries[0]
	assert.Equal(t, "channel", q.Get("type"))
	assert.Equal(t, "10", q.Get("maxResults"))
	assert.Empty(t, q.Get("videoDuration"))
	assert.Empty(t, q.Get("publishedAfter"))
}

func TestSearchPlaylists(t *testing.T) {
	client, fake := newTestDataClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, searchPage("playlist", []string{"PL1"}, "", 1))
	})

	env, err := client.SearchPlaylists(context.Background(), SearchParams{Query: "lofi", MaxResults: 5})
	require.NoError(t, err)
	require.Equal(t, 1, env.Len())
	assert.Equal(t, PlaylistRecord{
		PlaylistID:    "PL1",
		PlaylistTitle: "title PL1",
		ChannelID:     "UCowner",
		Description:   "desc PL1",
		PublishedAt:   "2024-05-01T00:00:00Z",
	}, env.Records[0])
	assert.Equal(t, "playlist", fake.queries[0].Get("type"))
}

func TestSearchVideos_ByChannel(t *testing.T) {
	client, fake := newTestDataClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, searchPage("video", ids("v", 3), "", 3))
	})

	env, err := client.SearchVideos(context.Background(), SearchParams{ChannelID: "UCowner", Order: "date"})
	require.NoError(t, err)
	assert.Equal(t, 3, env.Len())
	assert.Equal(t, "UCowner", fake.queries[0].Get("channelId"))
	assert.Empty(t, fake.queries[0].Get("q"))
}

func TestSearchVideos_UpstreamErrorMidway(t *testing.T) {
	client, fake := newTestDataClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageToken") == "" {
			writeJSON(t, w, searchPage("video", ids("a", 50), "NEXT", 900))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"quota exceeded","errors":[{"reason":"quotaExceeded"}]}}`)
	})

	env, err := client.SearchVideos(context.Background(), SearchParams{Query: "x", MaxResults: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "youtube search videos")
	assert.Equal(t, 50, env.Len(), "records from the first page survive")
	assert.Len(t, fake.queries, 2)
}

func TestVideoDetails_BatchesIDs(t *testing.T) {
	client, fake := newTestDataClient(t, func(w http.ResponseWriter, r *http.Request) {
		var items []map[string]any
		for _, id := range r.URL.Query()["id"] {
			for _, one := range strings.Split(id, ",") {
				items = append(items, map[string]any{
					"id":         one,
					"snippet":    map[string]any{"channelId": "UCowner", "title": one, "tags": []string{"go"}},
					"statistics": map[string]any{"viewCount": "12", "likeCount": "3"},
				})
			}
		}
		writeJSON(t, w, map[string]any{
			"items":    items,
			"pageInfo": map[string]any{"totalResults": len(items), "resultsPerPage": len(items)},
		})
	})

	all := ids("vid", 120)
	env, err := client.VideoDetails(context.Background(), all, 120)
	require.NoError(t, err)
	assert.Equal(t, 120, env.Len())
	assert.Equal(t, int64(120), env.TotalResults)
	require.Len(t, fake.queries, 3)
	assert.True(t, strings.HasSuffix(fake.paths[0], "/videos"))
	assert.Equal(t, uint64(12), env.Records[0].ViewCount)
	assert.Equal(t, []string{"go"}, env.Records[0].Tags)
	assert.Equal(t, "vid119", env.Records[119].VideoID)
}

func TestVideoDetails_TotalFromPageInfo(t *testing.T) {
	client, _ := newTestDataClient(t, func(w http.ResponseWriter, r *http.Request) {
		var items []map[string]any
		for _, id := range r.URL.Query()["id"] {
			for _, one := range strings.Split(id, ",") {
				snippet := map[string]any{"channelId": "UCowner"}
				if one == "vid003" {
					snippet = map[string]any{"title": "channel id missing"}
				}
				items = append(items, map[string]any{"id": one, "snippet": snippet})
			}
		}
		writeJSON(t, w, map[string]any{
			"items":    items,
			"pageInfo": map[string]any{"totalResults": len(items), "resultsPerPage": len(items)},
		})
	})

	env, err := client.VideoDetails(context.Background(), ids("vid", 60), 60)
	require.NoError(t, err)
	assert.Equal(t, 59, env.Len(), "item without a channel id is skipped")
	assert.Equal(t, int64(60), env.TotalResults, "total is summed from each batch's pageInfo")
}

func TestVideoDetails_MaxResultsCapsLookups(t *testing.T) {
	client, fake := newTestDataClient(t, func(w http.ResponseWriter, r *http.Request) {
		var items []map[string]any
		for _, id := range r.URL.Query()["id"] {
			for _, one := range strings.Split(id, ",") {
				items = append(items, map[string]any{"id": one, "snippet": map[string]any{"channelId": "UC"}})
			}
		}
		writeJSON(t, w, map[string]any{"items": items})
	})

	env, err := client.VideoDetails(context.Background(), ids("vid", 10), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, env.Len())
	assert.Len(t, fake.queries, 1)
}

func TestVideoDetails_NoIDs(t *testing.T) {
	client, fake := newTestDataClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called")
	})
	env, err := client.VideoDetails(context.Background(), nil, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, env.Len())
	assert.Empty(t, fake.queries)
}

func TestChannelInfo_LookupKey(t *testing.T) {
	client, fake := newTestDataClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"items": []map[string]any{{
			"id":         "UCabc",
			"snippet":    map[string]any{"title": "Gophers", "country": "DE"},
			"statistics": map[string]any{"viewCount": "100", "subscriberCount": "10", "videoCount": "1"},
		}}})
	})

	rec, err := client.ChannelInfo(context.Background(), "@somehandle")
	require.NoError(t, err)
	assert.Equal(t, "UCabc", rec.ChannelID)
	require.NotNil(t, rec.ChannelDetail)
	assert.Equal(t, "DE", rec.Country)
	assert.Equal(t, uint64(10), rec.SubscriberCount)

	_, err = client.ChannelInfo(context.Background(), "UCabc")
	require.NoError(t, err)

	require.Len(t, fake.queries, 2)
	assert.Equal(t, "@somehandle", fake.queries[0].Get("forHandle"))
	assert.Empty(t, fake.queries[0].Get("id"))
	assert.Equal(t, "UCabc", fake.queries[1].Get("id"))
	assert.Empty(t, fake.queries[1].Get("forHandle"))
	assert.True(t, strings.HasSuffix(fake.paths[1], "/channels"))
}

func TestChannelInfo_InvalidIDSkipsUpstream(t *testing.T) {
	client, fake := newTestDataClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called")
	})
	for _, bad := range []string{"bad", "", "@", "UC", "uc123"} {
		_, err := client.ChannelInfo(context.Background(), bad)
		assert.True(t, errors.Is(err, ErrInvalidChannelID), bad)
	}
	assert.Empty(t, fake.queries)
}

func TestChannelInfo_NotFound(t *testing.T) {
	client, _ := newTestDataClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"items": []any{}})
	})
	_, err := client.ChannelInfo(context.Background(), "UCmissing")
	assert.True(t, errors.Is(err, ErrChannelNotFound))
}
