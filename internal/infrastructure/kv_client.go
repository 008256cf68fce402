package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"presellgo/internal/domain"
	"presellgo/pkg/logger"
	"presellgo/pkg/metrics"

	"golang.org/x/time/rate"
)

// implements domain.KVClient against an Upstash-style REST key-value API
type RestKVClient struct {
	client      *http.Client
	baseURL     string
	token       string
	logger      *logger.Logger
	metrics     *metrics.Metrics
	rateLimiter rate.Limiter
}

// creates a new REST key-value client
func NewRestKVClient(baseURL, token string, timeout time.Duration, rps, burst int, logger *logger.Logger, metrics *metrics.Metrics) *RestKVClient {
	return &RestKVClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:     baseURL,
		token:       token,
		logger:      logger,
		metrics:     metrics,
		rateLimiter: *rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// getResponse is the REST API envelope; result is null for absent keys.
type getResponse struct {
	Result *string `json:"result"`
}

// Get fetches the raw value stored under key.
func (c *RestKVClient) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()

	if c.baseURL == "" || c.token == "" {
		c.metrics.RecordStoreFailure("get", "missing_credentials")
		return nil, fmt.Errorf("%w: store credentials not configured", domain.ErrStoreUnavailable)
	}

	// Apply rate limiting
	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordStoreFailure("get", "rate_limit")
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	endpoint := c.baseURL + "/get/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		c.metrics.RecordStoreFailure("get", "request_creation")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordStoreFailure("get", "network_error")
		return nil, fmt.Errorf("%w: failed to fetch key %s: %v", domain.ErrStoreUnavailable, key, err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.RecordStoreCall("get", "not_found", duration)
		return nil, domain.ErrKeyNotFound
	}
	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordStoreCall("get", fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return nil, fmt.Errorf("%w: store returned status %d", domain.ErrStoreUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordStoreFailure("get", "read_body")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var envelope getResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.metrics.RecordStoreFailure("get", "json_parse")
		return nil, fmt.Errorf("failed to parse store response: %w", err)
	}

	if envelope.Result == nil {
		c.metrics.RecordStoreCall("get", "not_found", duration)
		return nil, domain.ErrKeyNotFound
	}

	c.metrics.RecordStoreCall("get", "success", duration)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"key":      key,
		"duration": duration,
		"bytes":    len(*envelope.Result),
	}).Debug("Fetched key from store")

	return []byte(*envelope.Result), nil
}

// Set stores value under key, replacing any prior value.
func (c *RestKVClient) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()

	if c.baseURL == "" || c.token == "" {
		c.metrics.RecordStoreFailure("set", "missing_credentials")
		return fmt.Errorf("%w: store credentials not configured", domain.ErrStoreUnavailable)
	}

	// Apply rate limiting
	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordStoreFailure("set", "rate_limit")
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	endpoint := c.baseURL + "/set/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(value))
	if err != nil {
		c.metrics.RecordStoreFailure("set", "request_creation")
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordStoreFailure("set", "network_error")
		return fmt.Errorf("%w: failed to store key %s: %v", domain.ErrStoreUnavailable, key, err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.RecordStoreCall("set", fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return fmt.Errorf("%w: store returned status %d", domain.ErrStoreUnavailable, resp.StatusCode)
	}

	c.metrics.RecordStoreCall("set", "success", duration)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"key":      key,
		"duration": duration,
		"bytes":    len(value),
	}).Info("Stored key")

	return nil
}
