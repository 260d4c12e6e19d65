// Package postgrest wraps supabase-community/postgrest-go for the REST
// gateway of a Supabase project (PostgREST under <project-url>/rest/v1).
//
// It covers exactly what the names store needs: exact row counts, inserts,
// and projected/ordered selects. Every call takes a context and returns an
// error value; non-2xx responses become *ResponseError, which unwraps to a
// *sqlerr.Error when the gateway reported a SQLSTATE code.
package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	supabase "github.com/supabase-community/postgrest-go"
)

// Client talks to one Supabase project's REST gateway.
type Client struct {
	restURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client whose transport carries every request.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// NewHTTPClient builds the default HTTP client.
//
// Dial and TLS handshake are bounded; the request itself is not, so a call
// only ends early when its context is cancelled.
func NewHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}
}

// NewClient creates a Client for the project at projectURL (SUPABASE_URL)
// authenticating with apiKey (SUPABASE_KEY).
func NewClient(projectURL, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("postgrest: api key is required")
	}

	restURL := strings.TrimRight(projectURL, "/") + "/rest/v1"
	base, err := url.Parse(restURL)
	if err != nil {
		return nil, fmt.Errorf("postgrest: invalid project url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("postgrest: project url %q must be absolute", projectURL)
	}

	c := &Client{
		restURL:    restURL,
		apiKey:     apiKey,
		httpClient: NewHTTPClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Query describes a select: which columns to return and how to order them.
type Query struct {
	Columns    []string
	OrderBy    string
	Descending bool
}

// Count returns the exact number of rows in table.
//
// It issues a HEAD request with "Prefer: count=exact"; the total comes from
// the Content-Range header ("0-24/25" or "*/0").
func (c *Client) Count(ctx context.Context, table string) (int64, error) {
	builder, ex := c.from(ctx, table)

	_, count, err := builder.Select("*", "exact", true).Execute()
	if err != nil {
		return 0, ex.fail(http.MethodHead, table, err)
	}
	if _, err := parseContentRangeTotal(ex.contentRange); err != nil {
		return 0, err
	}
	return count, nil
}

// Insert writes row (any JSON-encodable value) into table.
func (c *Client) Insert(ctx context.Context, table string, row any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("postgrest: encode row: %w", err)
	}

	builder, ex := c.from(ctx, table)
	if _, _, err := builder.Insert(json.RawMessage(body), false, "", "minimal", "").Execute(); err != nil {
		return ex.fail(http.MethodPost, table, err)
	}
	return nil
}

// Select runs q against table and decodes the JSON array into dest.
func (c *Client) Select(ctx context.Context, table string, q Query, dest any) error {
	builder, ex := c.from(ctx, table)

	filter := builder.Select(strings.Join(q.Columns, ","), "", false)
	if q.OrderBy != "" {
		filter = filter.Order(q.OrderBy, &supabase.OrderOpts{Ascending: !q.Descending})
	}

	if _, err := filter.ExecuteTo(dest); err != nil {
		if ex.status == 0 || ex.status >= http.StatusBadRequest {
			return ex.fail(http.MethodGet, table, err)
		}
		return fmt.Errorf("postgrest: decode %s rows: %w", table, err)
	}
	return nil
}

// from starts a query on table whose request runs under ctx.
//
// postgrest-go builds requests without a context, so each call gets its own
// gateway client whose parent transport attaches ctx and records the
// response. Connections stay pooled in c.httpClient's transport.
func (c *Client) from(ctx context.Context, table string) (*supabase.QueryBuilder, *exchange) {
	next := c.httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	ex := &exchange{ctx: ctx, next: next}

	gateway := supabase.NewClient(c.restURL, "", nil).
		SetApiKey(c.apiKey).
		SetAuthToken(c.apiKey)
	gateway.Transport.Parent = ex

	return gateway.From(table), ex
}

func parseContentRangeTotal(contentRange string) (int64, error) {
	idx := strings.LastIndex(contentRange, "/")
	if idx < 0 || idx == len(contentRange)-1 {
		return 0, fmt.Errorf("postgrest: malformed Content-Range %q", contentRange)
	}

	total := contentRange[idx+1:]
	if total == "*" {
		return 0, fmt.Errorf("postgrest: Content-Range %q carries no exact count", contentRange)
	}

	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("postgrest: malformed Content-Range %q: %w", contentRange, err)
	}
	return n, nil
}
