package richtext

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formmigrate/pkg/model"
)

// DefaultURL is the endpoint of a locally running conversion service.
const DefaultURL = "http://localhost:5001/html"

// draftJSConverter selects the legacy renderer when slate output is disabled.
const draftJSConverter = "draftjs"

// Option configures an HTTPConverter.
type Option func(*HTTPConverter)

// WithHTTPClient sets the client used for conversion requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPConverter) {
		c.client = client
	}
}

// WithTimeout bounds each conversion request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPConverter) {
		c.timeout = timeout
	}
}

// WithSlate toggles slate output. When disabled the service is asked for the
// draftjs renderer.
func WithSlate(enabled bool) Option {
	return func(c *HTTPConverter) {
		c.slate = enabled
	}
}

// WithSanitizer filters HTML through policy before it is sent.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(c *HTTPConverter) {
		c.policy = policy
	}
}

// WithUGCSanitizer filters HTML through bluemonday's user-generated-content
// policy.
func WithUGCSanitizer() Option {
	return WithSanitizer(bluemonday.UGCPolicy())
}

// HTTPConverter posts HTML to the conversion service.
type HTTPConverter struct {
	url     string
	client  *http.Client
	timeout time.Duration
	slate   bool
	policy  *bluemonday.Policy
}

var _ Converter = (*HTTPConverter)(nil)

// NewHTTPConverter builds a converter targeting url. An empty url selects
// DefaultURL.
func NewHTTPConverter(url string, options ...Option) *HTTPConverter {
	c := &HTTPConverter{
		url:   url,
		slate: true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.url == "" {
		c.url = DefaultURL
	}
	if c.client == nil {
		c.client = &http.Client{}
	}
	return c
}

type convertRequest struct {
	HTML      string `json:"html"`
	Converter string `json:"converter,omitempty"`
}

type convertResponse struct {
	Data []model.Block `json:"data"`
}

// Convert posts html and returns the blocks of the response's data member.
// Blank input yields no blocks without contacting the service.
func (c *HTTPConverter) Convert(ctx context.Context, html string) ([]model.Block, error) {
	if c.policy != nil {
		html = c.policy.Sanitize(html)
	}
	if strings.TrimSpace(html) == "" {
		return nil, nil
	}

	payload := convertRequest{HTML: html}
	if !c.slate {
		payload.Converter = draftJSConverter
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("richtext: encode request: %w", err)
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("richtext: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("richtext: post %s: %w", c.url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var decoded convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("richtext: decode response: %w", err)
	}
	if decoded.Data == nil {
		return nil, errors.New("richtext: response has no data")
	}
	return decoded.Data, nil
}
