package oncotree

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// ErrUpstream marks a non-success or unparseable response from the Oncotree
// endpoint. Callers abort the current conversion when they see it.
var ErrUpstream = errors.New("unexpected response from oncotree endpoint")

// Client talks to one Oncotree API endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client for the given endpoint base URL. A trailing
// slash on the base URL is tolerated. Transport-level retries live inside the
// retryablehttp client; the conversion logic itself never retries.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{
		Timeout: 60 * time.Second,
	}

	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: retryClient.StandardClient(),
		log:        log,
	}
}

// Versions fetches the version listing of the endpoint.
func (c *Client) Versions() ([]Version, error) {
	var versions []Version
	if _, err := c.get("/versions", nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// TumorTypes fetches every concept record of one Oncotree version. The raw
// response body is returned alongside the parsed records so that callers can
// dump it for debugging without issuing a second request.
func (c *Client) TumorTypes(version string) ([]TumorType, []byte, error) {
	var tumorTypes []TumorType
	raw, err := c.get("/tumorTypes", url.Values{"version": []string{version}}, &tumorTypes)
	if err != nil {
		return nil, nil, err
	}
	return tumorTypes, raw, nil
}

// TumorTypesEndpoint returns the full URL the concept fetch for a version
// goes to, for progress reporting.
func (c *Client) TumorTypesEndpoint(version string) string {
	return c.BaseURL + "/tumorTypes?version=" + url.QueryEscape(version)
}

func (c *Client) get(endpoint string, query url.Values, response any) ([]byte, error) {
	uri := c.BaseURL + endpoint
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Str("url", uri).Msg("GET")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %s", ErrUpstream, uri, resp.Status)
	}
	if len(bodyBytes) == 0 {
		return nil, fmt.Errorf("%w: empty response from %s", ErrUpstream, uri)
	}

	if err := json.Unmarshal(bodyBytes, response); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response from %s: %v", ErrUpstream, uri, err)
	}
	return bodyBytes, nil
}
