package xc

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ppiankov/xcusage/pkg/config"
	"golang.org/x/time/rate"
)

const maxErrorBodyBytes = 512

// StatusError reports a non-2xx response from the tenant API.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %s", e.Status)
	}
	return fmt.Sprintf("unexpected status %s: %s", e.Status, e.Body)
}

// Client talks to the F5 Distributed Cloud management API of one tenant.
// All requests carry the APIToken authorization header and pass through
// a token-bucket rate limiter before going on the wire.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
	limiter    *rate.Limiter
	retry      retryConfig
}

// NewClient creates a tenant API client from runtime configuration.
func NewClient(cfg *config.Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, fmt.Errorf("API token is required")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 10
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		baseURL:  baseURL,
		apiToken: cfg.APIToken,
		// burst is 2x the refill rate, matching the API's own burst allowance
		limiter: rate.NewLimiter(rate.Limit(rps), rps*2),
		retry:   defaultRetryConfig(),
	}, nil
}

// Host returns the tenant host the client is configured for.
func (c *Client) Host() string {
	parsed, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL
	}
	return parsed.Host
}

// ListNamespaces enumerates all namespaces visible to the API token.
func (c *Client) ListNamespaces(ctx context.Context) ([]string, error) {
	var resp namespaceListResponse
	if err := c.do(ctx, http.MethodGet, "/api/web/namespaces", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}

	namespaces := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		namespaces = append(namespaces, name)
	}
	return namespaces, nil
}

// ApplicationInventory retrieves the billable object inventory for a
// namespace.
func (c *Client) ApplicationInventory(ctx context.Context, namespace string) (*Inventory, error) {
	path := fmt.Sprintf("/api/config/namespaces/%s/application_inventory", url.PathEscape(namespace))

	inventory := &Inventory{}
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, inventory); err != nil {
		return nil, fmt.Errorf("failed to retrieve application inventory for namespace %q: %w", namespace, err)
	}
	return inventory, nil
}

// do issues one API call with rate limiting and retry, decoding a 2xx
// response body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	requestURL := c.baseURL + path

	var respBody []byte
	err := executeWithRetry(ctx, c.retry, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, method, requestURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "APIToken "+c.apiToken)
		req.Header.Set("Content-Type", "application/json")

		slog.Debug("api request",
			slog.String("method", method),
			slog.String("path", path),
		)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &StatusError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       errorBodySnippet(data),
			}
		}

		respBody = data
		return nil
	})
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func errorBodySnippet(data []byte) string {
	snippet := strings.TrimSpace(string(data))
	if len(snippet) > maxErrorBodyBytes {
		snippet = snippet[:maxErrorBodyBytes] + "..."
	}
	return snippet
}
