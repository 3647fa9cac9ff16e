package providers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/video"
)

const defaultYouTubeURL = "https://www.googleapis.com/youtube/v3"

// YouTubeProvider implements video.Finder for the YouTube Data API v3.
type YouTubeProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

var _ video.Finder = (*YouTubeProvider)(nil)

// NewYouTubeProvider fails with a config error when apiKey is empty.
func NewYouTubeProvider(client *http.Client, apiKey, baseURL string) (*YouTubeProvider, error) {
	if apiKey == "" {
		return nil, common.NewConfigError("YOUTUBE_API_KEY is not set")
	}
	if baseURL == "" {
		baseURL = defaultYouTubeURL
	}

	return &YouTubeProvider{
		name:    "youtube",
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		circuit: newCircuitBreaker("youtube"),
	}, nil
}

func (p *YouTubeProvider) Name() string {
	return p.name
}

type thumbnail struct {
	URL string `json:"url"`
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   struct {
				Default thumbnail `json:"default"`
				Medium  thumbnail `json:"medium"`
				High    thumbnail `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// SearchWeatherVideos searches for "<locationName> weather".
func (p *YouTubeProvider) SearchWeatherVideos(ctx context.Context, locationName string, maxResults int) ([]video.Video, error) {
	values := url.Values{}
	values.Set("part", "snippet")
	values.Set("q", locationName+" weather")
	values.Set("type", "video")
	values.Set("maxResults", strconv.Itoa(maxResults))
	values.Set("key", p.apiKey)

	var payload youtubeSearchResponse
	if err := getJSON(ctx, p.client, p.circuit, p.name, joinURL(p.baseURL, "search"), values, &payload); err != nil {
		return nil, err
	}

	videos := make([]video.Video, 0, len(payload.Items))
	for _, item := range payload.Items {
		thumb := item.Snippet.Thumbnails.Medium.URL
		if thumb == "" {
			thumb = item.Snippet.Thumbnails.Default.URL
		}
		videos = append(videos, video.Video{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			Thumbnail:    thumb,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			URL:          video.WatchURL(item.ID.VideoID),
		})
	}
	return videos, nil
}
