package video

import "context"

// Video is a search result summary.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	URL          string `json:"url"`
}

// Finder searches a video provider for weather coverage of a place.
type Finder interface {
	SearchWeatherVideos(ctx context.Context, locationName string, maxResults int) ([]Video, error)
}

// WatchURL returns the public URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

type unavailable struct {
	err error
}

// Unavailable returns a Finder that fails every call with err.
func Unavailable(err error) Finder {
	return unavailable{err: err}
}

func (u unavailable) SearchWeatherVideos(context.Context, string, int) ([]Video, error) {
	return nil, u.err
}
