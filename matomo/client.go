// Package matomo is the HTTP client for Matomo's reporting API. Every call
// goes through index.php with module=API and a "Module.action" method
// parameter; authentication is a token_auth form/query field or a session
// cookie.
package matomo

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client performs authenticated calls against one Matomo instance.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	token      string
	cookies    string
	cache      *Cache
}

// NewClient creates a client for the instance at baseURL. token and
// cookies may each be empty; with a token requests go out as POST form
// submissions, without one as plain GETs.
func NewClient(baseURL, token, cookies string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing scheme or host", baseURL)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				// Some Matomo instances run with self-signed certs.
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		baseURL: u,
		token:   token,
		cookies: cookies,
	}, nil
}

// WithCache attaches a disk cache used for the introspection fetches
// (method list, API reference). Method invocations are never cached.
func (c *Client) WithCache(cache *Cache) *Client {
	c.cache = cache
	return c
}

// BaseURL returns the configured instance URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// apiRequest performs one API call and returns the status code and raw
// body. POST with form data when a token is present, GET otherwise.
func (c *Client) apiRequest(ctx context.Context, module, action string, extra map[string]string) (int, []byte, error) {
	endpoint := *c.baseURL
	endpoint.Path = "/index.php"
	endpoint.RawQuery = ""

	params := url.Values{}
	params.Set("module", "API")
	params.Set("method", module+"."+action)
	params.Set("format", "JSON")
	for k, v := range extra {
		params.Set(k, v)
	}

	var req *http.Request
	var err error
	if c.token != "" {
		params.Set("token_auth", c.token)
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		endpoint.RawQuery = params.Encode()
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	}
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}

	if c.cookies != "" {
		req.Header.Set("Cookie", c.cookies)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("calling %s.%s: %w", module, action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response for %s.%s: %w", module, action, err)
	}

	return resp.StatusCode, body, nil
}
