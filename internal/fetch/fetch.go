// Package fetch downloads listing pages so their text can be scanned for leads.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/homestarrealty/buyerhunter/internal/cache"
)

// DefaultMaxBytes caps a page body at 8 MiB.
const DefaultMaxBytes = 8 << 20

// ErrUnsupportedContentType is returned for responses that are not text.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// ErrBodyTooLarge is returned when a response body exceeds Client.MaxBytes.
// Oversized pages are rejected, not truncated.
var ErrBodyTooLarge = errors.New("response body too large")

// StatusError reports a non-success HTTP status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("unexpected status: %d", e.Code) }

// Client fetches pages with a timeout, bounded retries on transient failures
// and an optional on-disk cache.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the first attempt. Values below 1 mean 1.
	MaxAttempts int
	// PerRequestTimeout bounds each attempt. Zero leaves only the context deadline.
	PerRequestTimeout time.Duration
	// MaxBytes limits the body size. Zero means DefaultMaxBytes.
	MaxBytes int64
	// RedirectMaxHops caps redirects. Zero means 5.
	RedirectMaxHops int
	Cache           *cache.PageCache
}

// NewHTTPClient returns a transport with conservative dial and TLS timeouts.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConnsPerHost:   8,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
		Timeout: 60 * time.Second,
	}
}

// Get returns the body and content type of rawURL. A cached copy is
// revalidated with If-None-Match/If-Modified-Since and served on 304.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("parse url: %w", err)
	}
	if !isHTTPScheme(u) {
		return nil, "", fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}

	var cached *cache.Entry
	var cachedBody []byte
	if c.Cache != nil {
		cached, cachedBody, err = c.Cache.Load(ctx, rawURL)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Debug().Err(err).Str("url", rawURL).Msg("page cache unreadable")
		}
	}

	attempts := c.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		res, err := c.once(ctx, rawURL, cached)
		if err == nil {
			if res.notModified {
				if cached == nil {
					return nil, "", &StatusError{Code: http.StatusNotModified}
				}
				log.Debug().Str("url", rawURL).Msg("page not modified; using cache")
				return cachedBody, cached.ContentType, nil
			}
			if c.Cache != nil {
				entry := cache.Entry{URL: rawURL, ContentType: res.contentType, ETag: res.etag, LastModified: res.lastModified}
				if err := c.Cache.Save(ctx, entry, res.body); err != nil {
					log.Warn().Err(err).Str("url", rawURL).Msg("page cache save failed")
				}
			}
			return res.body, res.contentType, nil
		}
		lastErr = err
		if !isTransient(err) || i == attempts-1 {
			break
		}
		log.Debug().Err(err).Int("attempt", i+1).Str("url", rawURL).Msg("retrying fetch")
		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		case <-time.After(time.Duration(i+1) * 200 * time.Millisecond):
		}
	}
	return nil, "", lastErr
}

type response struct {
	body         []byte
	contentType  string
	etag         string
	lastModified string
	notModified  bool
}

func (c *Client) once(ctx context.Context, rawURL string, cached *cache.Entry) (*response, error) {
	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if cached != nil {
		if cached.ETag != "" {
			req.Header.Set("If-None-Match", cached.ETag)
		}
		if cached.LastModified != "" {
			req.Header.Set("If-Modified-Since", cached.LastModified)
		}
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return &response{notModified: true}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	ct := resp.Header.Get("Content-Type")
	if !isTextContentType(ct) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, ct)
	}
	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}
	return &response{
		body:         body,
		contentType:  ct,
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
	}, nil
}

func (c *Client) httpClient() *http.Client {
	base := http.Client{Timeout: c.PerRequestTimeout}
	if c.HTTPClient != nil {
		base = *c.HTTPClient
	}
	hops := c.RedirectMaxHops
	if hops <= 0 {
		hops = 5
	}
	base.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= hops {
			return errors.New("too many redirects")
		}
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
	return &base
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	return false
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	s := strings.ToLower(u.Scheme)
	return s == "http" || s == "https"
}

// IsHTML reports whether a content type carries HTML markup.
func IsHTML(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}

func isTextContentType(ct string) bool {
	if IsHTML(ct) {
		return true
	}
	ct = strings.ToLower(strings.TrimSpace(ct))
	return ct == "" || strings.HasPrefix(ct, "text/plain")
}
