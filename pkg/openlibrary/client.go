package openlibrary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/bookbuddy/pkg/config"
	"github.com/shishobooks/bookbuddy/pkg/errcodes"
	"golang.org/x/time/rate"
)

const sourceName = "Open Library"

var searchFields = strings.Join([]string{
	"key", "title", "author_name", "first_publish_year", "cover_edition_key",
	"language", "isbn", "edition_key", "first_sentence",
}, ",")

// Client talks to the Open Library JSON API. Every request waits on a shared
// rate limiter and is retried on transport errors, 429s and 5xx responses.
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

type statusError struct {
	url    string
	status int
}

func (err *statusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", err.status, err.url)
}

func NewClient(cfg *config.Config) *Client {
	limit := rate.Inf
	if cfg.CatalogRequestsPerSecond > 0 {
		limit = rate.Every(time.Second / time.Duration(cfg.CatalogRequestsPerSecond))
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.CatalogTimeout,
		},
		userAgent:  cfg.CatalogUserAgent,
		baseURL:    strings.TrimRight(cfg.CatalogBaseURL, "/"),
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: cfg.CatalogMaxRetries,
		backoff:    time.Second,
	}
}

// Search looks works up by title and/or author.
func (c *Client) Search(ctx context.Context, query SearchQuery, limit int) (*SearchResponse, error) {
	title := strings.TrimSpace(query.Title)
	author := strings.TrimSpace(query.Author)
	if title == "" && author == "" {
		return nil, errcodes.InvalidFieldValue("search", "")
	}

	params := url.Values{}
	if title != "" {
		params.Set("title", title)
	}
	if author != "" {
		params.Set("author", author)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	params.Set("fields", searchFields)

	var res SearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/search.json?"+params.Encode(), &res); err != nil {
		return nil, errcodes.SourceUnavailable(sourceName, err)
	}
	return &res, nil
}

// Edition fetches the edition record for an ISBN-10 or ISBN-13.
func (c *Client) Edition(ctx context.Context, isbn string) (*Edition, error) {
	u := fmt.Sprintf("%s/isbn/%s.json", c.baseURL, url.PathEscape(isbn))

	var res Edition
	if err := c.getJSON(ctx, u, &res); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.status == http.StatusNotFound {
			return nil, errcodes.NotFound("Edition")
		}
		return nil, errcodes.SourceUnavailable(sourceName, err)
	}
	return &res, nil
}

// Author fetches an author by key. The key is usually "/authors/OL...A", but a
// bare "OL...A" works too.
func (c *Client) Author(ctx context.Context, key string) (*Author, error) {
	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, "/") {
		key = "/authors/" + key
	}

	var res Author
	if err := c.getJSON(ctx, c.baseURL+key+".json", &res); err != nil {
		return nil, errcodes.SourceUnavailable(sourceName, err)
	}
	return &res, nil
}

// Fetch returns the raw body at rawURL. It's used for cover images.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, errcodes.SourceUnavailable(sourceName, err)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, u string, target interface{}) error {
	body, err := c.get(ctx, u)
	if err != nil {
		return err
	}
	return errors.Wrapf(json.Unmarshal(body, target), "failed to decode response from %s", u)
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// 1x, 2x, 4x...
			wait := c.backoff * time.Duration(1<<uint(i-1))
			log.Debug("retrying catalog request", logger.Data{"url": u, "attempt": i, "wait": wait.String()})
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, errors.WithStack(ctx.Err())
			}
		}

		body, retry, err := c.do(ctx, u)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, errors.Wrapf(lastErr, "after %d retries", c.maxRetries)
}

// do performs a single request and reports whether a failure is worth
// retrying.
func (c *Client) do(ctx context.Context, u string) ([]byte, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, errors.WithStack(err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, &statusError{url: u, status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, errors.WithStack(err)
	}
	return body, false, nil
}
