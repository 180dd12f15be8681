package imageproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	appMiddleware "github.com/vroomprestige/vroom-api/pkg/middleware"
	"github.com/vroomprestige/vroom-api/pkg/response"
)

const (
	// defaultFetchTimeout caps the outbound fetch; the only bounded wait in
	// the API.
	defaultFetchTimeout = 10 * time.Second

	cacheTTL       = 24 * time.Hour
	cacheKeyPrefix = "imgproxy:"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Cache is the slice of the Redis API the proxy uses. Satisfied by
// *redis.Client.
type Cache interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd
}

// Service proxies external car images so browser clients are not blocked by
// the CDN's CORS policy. Fetched bodies are cached in Redis for 24 hours.
type Service struct {
	client       *http.Client
	cache        Cache
	fetchTimeout time.Duration
}

func NewService(cache *redis.Client) *Service {
	s := &Service{
		client:       &http.Client{},
		fetchTimeout: defaultFetchTimeout,
	}
	if cache != nil {
		s.cache = cache
	}
	return s
}

// HandleProxyImage serves GET /api/proxy-image?url=...
func (s *Service) HandleProxyImage(c echo.Context) error {
	logger := appMiddleware.GetLogger(c)

	imageURL := c.QueryParam("url")
	if imageURL == "" {
		return response.Error(c, http.StatusBadRequest, "missing_image_url", nil)
	}

	if !strings.HasPrefix(imageURL, "http") {
		imageURL = "http://" + imageURL
	}

	ctx := c.Request().Context()

	if body, contentType, ok := s.fromCache(ctx, imageURL); ok {
		c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		return c.Blob(http.StatusOK, contentType, body)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, imageURL, nil)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_image_url", err.Error())
	}
	req.Header.Set("User-Agent", userAgent)
	if strings.Contains(imageURL, "cdn.motor1.com") {
		// motor1's CDN refuses requests without a same-site referer.
		req.Header.Set("Referer", "https://www.motor1.com/")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			logger.Warn().Str("url", imageURL).Msg("Image fetch timed out")
			return response.Error(c, http.StatusGatewayTimeout, "image_fetch_timeout", nil)
		}
		logger.Error().Err(err).Str("url", imageURL).Msg("Image fetch failed")
		return response.Error(c, http.StatusInternalServerError, "image_fetch_failed", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return response.Error(c, resp.StatusCode, "image_fetch_failed",
			fmt.Sprintf("upstream returned %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "image_fetch_failed", err.Error())
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	s.store(ctx, imageURL, body, contentType)

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, contentType, body)
}

func (s *Service) fromCache(ctx context.Context, url string) ([]byte, string, bool) {
	if s.cache == nil {
		return nil, "", false
	}
	fields, err := s.cache.HGetAll(ctx, cacheKeyPrefix+url).Result()
	if err != nil || len(fields) == 0 {
		return nil, "", false
	}
	body, ok := fields["body"]
	if !ok || body == "" {
		return nil, "", false
	}
	contentType := fields["content_type"]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return []byte(body), contentType, true
}

func (s *Service) store(ctx context.Context, url string, body []byte, contentType string) {
	if s.cache == nil {
		return
	}
	key := cacheKeyPrefix + url
	// Cache failures are ignored: the proxy still served the image.
	if err := s.cache.HSet(ctx, key, "body", body, "content_type", contentType).Err(); err != nil {
		return
	}
	s.cache.Expire(ctx, key, cacheTTL)
}
