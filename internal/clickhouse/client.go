// Package clickhouse talks to a ClickHouse Cloud service over its HTTP query API.
package clickhouse

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ErrUnauthorized is returned when the service rejects the API key
var ErrUnauthorized = errors.New("clickhouse authentication failed")

// Config holds the connection settings for a ClickHouse HTTP endpoint
type Config struct {
	Host      string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
	Burst     int
}

// Client is a ClickHouse HTTP client
type Client struct {
	host       string
	keyID      string
	keySecret  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new ClickHouse client
func NewClient(cfg Config) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		host:      cfg.Host,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		limiter:   limiter,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Query runs a SELECT and calls fn once per returned row, in order
func (c *Client) Query(ctx context.Context, query string, fn func(row []byte) error) error {
	body, err := c.post(ctx, query, "JSONEachRow")
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	rows := 0
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return fmt.Errorf("failed to decode row %d: %w", rows+1, err)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}

	log.Debug().Int("rows", rows).Msg("ClickHouse query returned rows")
	return nil
}

// Exec runs a statement that returns no rows (ALTER, INSERT, ...)
func (c *Client) Exec(ctx context.Context, statement string) error {
	_, err := c.post(ctx, statement, "")
	return err
}

// Ping checks that the service accepts queries
func (c *Client) Ping(ctx context.Context) error {
	return c.Exec(ctx, "SELECT 1")
}

func (c *Client) post(ctx context.Context, query, format string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	url := c.host
	if format != "" {
		url = fmt.Sprintf("%s?format=%s", c.host, format)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "nfl-team-rankings/1.0")

	log.Debug().
		Str("query", truncate(query, 150)).
		Msg("Executing ClickHouse query")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clickhouse request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w (status %d): %s", ErrUnauthorized, resp.StatusCode, truncate(string(body), 200))

	default:
		return nil, fmt.Errorf("clickhouse returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
