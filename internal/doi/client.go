// Package doi resolves DOIs against the Crossref REST API.
package doi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Crossref REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit keeps us inside Crossref's polite-pool guidance.
	RateLimit = 2.0
)

// Errors returned when resolving a DOI.
var (
	// ErrNotFound indicates the DOI is not registered with Crossref.
	ErrNotFound = errors.New("DOI not registered")

	// ErrAPIError indicates an unexpected Crossref response.
	ErrAPIError = errors.New("Crossref API error")
)

// Work is the subset of Crossref work metadata used for verification.
type Work struct {
	DOI     string
	Title   string
	Journal string
	Volume  string
	Issue   string
	Pages   string
	Year    string
}

// Client is a rate-limited HTTP client for the Crossref REST API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMailto sets the contact address sent with every request, which
// routes requests through Crossref's polite pool.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		c.mailto = mailto
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Crossref client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// crossrefMessage mirrors the fields we read from a works response.
type crossrefMessage struct {
	Message struct {
		DOI            string   `json:"DOI"`
		Title          []string `json:"title"`
		ContainerTitle []string `json:"container-title"`
		Volume         string   `json:"volume"`
		Issue          string   `json:"issue"`
		Page           string   `json:"page"`
		Issued         struct {
			DateParts [][]int `json:"date-parts"`
		} `json:"issued"`
	} `json:"message"`
}

// Resolve fetches the work registered for the given DOI. The DOI may
// carry a URL prefix; it is normalized before lookup.
func (c *Client) Resolve(ctx context.Context, doi string) (*Work, error) {
	doi = Normalize(doi)
	if doi == "" {
		return nil, fmt.Errorf("%w: empty DOI", ErrNotFound)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + "/works/" + url.PathEscape(doi)
	if c.mailto != "" {
		reqURL += "?mailto=" + url.QueryEscape(c.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying Crossref: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, doi)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	var msg crossrefMessage
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrAPIError, err)
	}

	work := &Work{
		DOI:    Normalize(msg.Message.DOI),
		Volume: msg.Message.Volume,
		Issue:  msg.Message.Issue,
		Pages:  msg.Message.Page,
	}
	if len(msg.Message.Title) > 0 {
		work.Title = msg.Message.Title[0]
	}
	if len(msg.Message.ContainerTitle) > 0 {
		work.Journal = msg.Message.ContainerTitle[0]
	}
	if parts := msg.Message.Issued.DateParts; len(parts) > 0 && len(parts[0]) > 0 {
		work.Year = strconv.Itoa(parts[0][0])
	}

	return work, nil
}

// Normalize strips common URL prefixes from a DOI and lowercases it
// for comparison.
func Normalize(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(strings.TrimSpace(doi))
}
