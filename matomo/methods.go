package matomo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FGRibreau/mcp-matomo/internal"
)

const authHelp = `authentication failed (HTTP 401)

How to fix this:
 1. Use an API token (recommended): Matomo > Settings > Personal > Security,
    create or copy your API token and pass it with --token.
 2. Or use a session cookie: copy the MATOMO_SESSID cookie from a logged-in
    browser session and pass it with --cookies "MATOMO_SESSID=...".
 3. Verify you have 'view' access to the site ID passed with --site-id.`

// FetchMethodList retrieves the discovery payload from
// API.getReportMetadata for the given site and returns it decoded.
func (c *Client) FetchMethodList(ctx context.Context, siteID string) (any, error) {
	cacheKey := "method-list-" + siteID

	body := c.cached(cacheKey)
	if body == nil {
		status, fresh, err := c.apiRequest(ctx, "API", "getReportMetadata", map[string]string{"idSite": siteID})
		if err != nil {
			return nil, err
		}
		if status == 401 {
			return nil, fmt.Errorf("%s\n\nserver said: %s", authHelp, truncate(string(fresh), 200))
		}
		if status < 200 || status > 299 {
			return nil, fmt.Errorf("fetching method list: HTTP %d: %s", status, truncate(string(fresh), 200))
		}
		c.store(cacheKey, fresh)
		body = fresh
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parsing method list JSON: %w", err)
	}
	return payload, nil
}

// FetchVersion returns the Matomo version, or "unknown" when the call
// fails for any reason.
func (c *Client) FetchVersion(ctx context.Context) string {
	status, body, err := c.apiRequest(ctx, "API", "getMatomoVersion", nil)
	if err != nil || status < 200 || status > 299 {
		internal.Errorf("could not fetch Matomo version: status=%d err=%v", status, err)
		return "unknown"
	}

	var resp struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Value == "" {
		return "unknown"
	}
	return resp.Value
}

// FetchAPIReference retrieves the raw API.listAllAPI reference page used
// for parameter signature scraping.
func (c *Client) FetchAPIReference(ctx context.Context) (string, error) {
	const cacheKey = "api-reference"

	if body := c.cached(cacheKey); body != nil {
		return string(body), nil
	}

	status, body, err := c.apiRequest(ctx, "API", "listAllAPI", nil)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("fetching API reference: HTTP %d", status)
	}

	c.store(cacheKey, body)
	return string(body), nil
}

// FetchExample calls a method with sample parameters and returns the
// decoded response. Failed calls yield nil rather than an error — example
// collection is best effort. A body that is not JSON is wrapped as a JSON
// string value.
func (c *Client) FetchExample(ctx context.Context, module, action string, extra map[string]string) (any, error) {
	status, body, err := c.apiRequest(ctx, module, action, extra)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		internal.Errorf("example request failed for %s.%s: HTTP %d: %s", module, action, status, truncate(string(body), 200))
		return nil, nil
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return string(body), nil
	}
	return value, nil
}

// CallMethod invokes an API method with caller-supplied arguments and
// returns the decoded response. Matomo reports most failures inside a
// 200 response as {"result": "error", "message": ...}; those become
// errors here.
func (c *Client) CallMethod(ctx context.Context, module, action string, params map[string]any) (any, error) {
	extra := make(map[string]string, len(params))
	for key, value := range params {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			extra[key] = v
		case bool:
			if v {
				extra[key] = "1"
			} else {
				extra[key] = "0"
			}
		case float64:
			extra[key] = formatNumber(v)
		default:
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("encoding parameter %s: %w", key, err)
			}
			extra[key] = string(raw)
		}
	}

	status, body, err := c.apiRequest(ctx, module, action, extra)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("Matomo API error (HTTP %d): %s", status, truncate(string(body), 500))
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return string(body), nil
	}

	if obj, ok := value.(map[string]any); ok {
		if result, _ := obj["result"].(string); result == "error" {
			message, _ := obj["message"].(string)
			if message == "" {
				message = "unknown error"
			}
			return nil, fmt.Errorf("Matomo API error: %s", message)
		}
	}

	return value, nil
}

func (c *Client) cached(key string) []byte {
	if c.cache == nil {
		return nil
	}
	return c.cache.Get(c.BaseURL() + "|" + key)
}

func (c *Client) store(key string, data []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Put(c.BaseURL()+"|"+key, data); err != nil {
		internal.Errorf("caching %s: %v", key, err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
