package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"showroom/config"
	"showroom/internal/database"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

const (
	VIDEO_CACHE_HASH  = "room_videos"
	videoSearchLimit  = 12
	videoFetchTimeout = 10 * time.Second
)

type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	PublishedAt time.Time `json:"publishedAt"`
	URL         string    `json:"url"`
}

type VideoCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type valkeyVideoCache struct {
	client database.CacheClient
}

func NewValkeyVideoCache(client database.CacheClient) VideoCache {
	return &valkeyVideoCache{client: client}
}

func (c *valkeyVideoCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	return database.NewCacheBuilder(c.client, key).WithContext(ctx).WithHash(VIDEO_CACHE_HASH).Get(dest)
}

func (c *valkeyVideoCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return database.NewCacheBuilder(c.client, key).
		WithContext(ctx).
		WithHash(VIDEO_CACHE_HASH).
		WithStruct(value).
		WithTTL(ttl).
		Set()
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string    `json:"title"`
			Description string    `json:"description"`
			PublishedAt time.Time `json:"publishedAt"`
			Thumbnails  map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// VideoService lists a channel's recent uploads, memoized in valkey for VIDEO_CACHE_TTL_MINUTES.
type VideoService struct {
	apiKey string
	apiURL string
	ttl    time.Duration
	cache  VideoCache
	log    logger.Logger
}

func NewVideoService(config config.Config, cache VideoCache) *VideoService {
	return &VideoService{
		apiKey: config.YouTubeAPIKey,
		apiURL: config.YouTubeAPIURL,
		ttl:    time.Duration(config.VideoCacheTTLMinutes) * time.Minute,
		cache:  cache,
		log:    logger.New("VideoService"),
	}
}

func (s *VideoService) ChannelVideos(ctx context.Context, channelID string) ([]Video, error) {
	log := s.log.TraceFromContext(ctx).Function("ChannelVideos")

	if channelID == "" {
		return []Video{}, nil
	}
	if s.apiKey == "" || s.apiURL == "" {
		return nil, log.Err("video api is not configured", types.ErrConfiguration)
	}

	var cached []Video
	found, err := s.cache.Get(ctx, channelID, &cached)
	if err != nil {
		log.Warn("failed to read video cache", "channelID", channelID, "error", err)
	}
	if found {
		return cached, nil
	}

	videos, err := s.fetch(channelID)
	if err != nil {
		return nil, log.Err("failed to fetch channel videos", types.Backend(err), "channelID", channelID)
	}

	if err := s.cache.Set(ctx, channelID, videos, s.ttl); err != nil {
		log.Warn("failed to write video cache", "channelID", channelID, "error", err)
	}
	return videos, nil
}

func (s *VideoService) fetch(channelID string) ([]Video, error) {
	query := url.Values{}
	query.Set("key", s.apiKey)
	query.Set("channelId", channelID)
	query.Set("part", "snippet")
	query.Set("order", "date")
	query.Set("type", "video")
	query.Set("maxResults", fmt.Sprint(videoSearchLimit))

	var response searchResponse
	code, _, errs := fiber.Get(s.apiURL).
		QueryString(query.Encode()).
		Timeout(videoFetchTimeout).
		Struct(&response)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("video api returned status %d", code)
	}

	videos := make([]Video, 0, len(response.Items))
	for _, item := range response.Items {
		if item.ID.VideoID == "" {
			continue
		}
		video := Video{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			PublishedAt: item.Snippet.PublishedAt,
			URL:         "https://www.youtube.com/watch?v=" + item.ID.VideoID,
		}
		for _, size := range []string{"high", "medium", "default"} {
			if thumb, ok := item.Snippet.Thumbnails[size]; ok {
				video.Thumbnail = thumb.URL
				break
			}
		}
		videos = append(videos, video)
	}
	return videos, nil
}
