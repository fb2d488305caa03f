package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/maxaizer/internship-scraper/internal/config"
	"github.com/maxaizer/internship-scraper/internal/entities"
	"github.com/pkg/errors"
)

// ErrNotConfigured is returned when no base URL is set; fetching is disabled.
var ErrNotConfigured = errors.New("API_BASE_URL is not set")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %v, body: %v", e.StatusCode, e.Body)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	httpClient HTTPClient
	cfg        config.SourceConfig
}

func NewClient(cfg config.SourceConfig) *Client {
	return &Client{httpClient: &http.Client{Timeout: cfg.Timeout}, cfg: cfg}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

// FetchPage requests one page of listings. An empty slice with a nil error means
// the upstream has no more data; every failure is reported as an error.
func (c *Client) FetchPage(ctx context.Context, page int) ([]entities.RawItem, error) {

	if c.cfg.BaseURL == "" {
		return nil, ErrNotConfigured
	}

	if page < 1 {
		return nil, fmt.Errorf("page must be positive, got %d", page)
	}

	params := url.Values{}
	params.Add("page", strconv.Itoa(page))
	params.Add("per_page", strconv.Itoa(c.cfg.PerPage))
	params.Add("hours_lookback", strconv.Itoa(c.cfg.HoursLookback))

	apiURL, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base url")
	}
	query := apiURL.Query()
	for key, values := range params {
		query[key] = values
	}
	apiURL.RawQuery = query.Encode()

	body, err := c.sendRequest(ctx, http.MethodGet, apiURL.String(), nil)
	if err != nil {
		return nil, err
	}

	items, err := extractItems(body)
	if err != nil {
		return nil, &DecodeError{err: err}
	}
	return items, nil
}

func (c *Client) sendRequest(ctx context.Context, method string, url string, body io.Reader) ([]byte, error) {

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error sending request")
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	return body, nil
}

// DecodeError is returned when a 2xx body is not JSON.
type DecodeError struct {
	err error
}

func (e *DecodeError) Error() string {
	return "error decoding JSON response: " + e.err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

// IsTransient reports whether retrying the same request may succeed:
// transport failures, 429 and 5xx responses.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, ErrNotConfigured) || errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}

	var decodeErr *DecodeError
	return !errors.As(err, &decodeErr)
}

// extractItems tolerates the envelopes the upstream has been seen to use:
// data.data, data, items, results, or a bare list. The first non-empty list wins.
func extractItems(body []byte) ([]entities.RawItem, error) {
	var list []entities.RawItem
	if err := json.Unmarshal(body, &list); err == nil {
		return nonNil(list), nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		var anything any
		if err := json.Unmarshal(body, &anything); err != nil {
			return nil, err
		}
		return []entities.RawItem{}, nil
	}

	if data, ok := envelope["data"]; ok {
		var nested map[string]json.RawMessage
		if json.Unmarshal(data, &nested) == nil {
			if items := asList(nested["data"]); len(items) > 0 {
				return items, nil
			}
		}
		if items := asList(data); len(items) > 0 {
			return items, nil
		}
	}

	for _, key := range []string{"items", "results"} {
		if items := asList(envelope[key]); len(items) > 0 {
			return items, nil
		}
	}

	return []entities.RawItem{}, nil
}

func asList(raw json.RawMessage) []entities.RawItem {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}

	var items []entities.RawItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil
	}
	return items
}

func nonNil(items []entities.RawItem) []entities.RawItem {
	if items == nil {
		return []entities.RawItem{}
	}
	return items
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
