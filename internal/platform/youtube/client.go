// Package youtube wraps the YouTube Data API v3 search endpoint for video
// lookups by free-text query.
package youtube

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/yungbote/omnichat-backend/internal/domain"
)

// Video is a single search hit.
type Video struct {
	ID          string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	URL         string `json:"url"`
}

type Client struct {
	svc *yt.Service
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.ErrMissingAPIKey
	}
	svc, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube: init service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Search returns the top video hit for the query, or (nil, nil) when the
// search completes but nothing matches. No-hit is not an error.
func (c *Client) Search(ctx context.Context, query string) (*Video, error) {
	resp, err := c.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube: search: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	item := resp.Items[0]
	v := &Video{}
	if item.Id != nil {
		v.ID = item.Id.VideoId
	}
	if item.Snippet != nil {
		v.Title = item.Snippet.Title
		v.Description = item.Snippet.Description
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
			v.Thumbnail = item.Snippet.Thumbnails.Default.Url
		}
	}
	if v.ID != "" {
		v.URL = "https://www.youtube.com/watch?v=" + v.ID
	}
	return v, nil
}
