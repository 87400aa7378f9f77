// Package answer implements the HTTP client for the remote answer service.
package answer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// FormField is the form field carrying the question.
	FormField = "question"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 4 << 20
)

// ErrMissingAnswer is returned when the response JSON has no answer field.
var ErrMissingAnswer = errors.New("response has no answer field")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("answer service returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("answer service returned %d %s: %s", e.Code, http.StatusText(e.Code), body)
}

// Response is the JSON body returned by the answer service.
type Response struct {
	Answer *string `json:"answer"`
}

// Config defines the configuration interface for the answer client
type Config interface {
	AskURL() (string, error)
}

// Client posts questions to the answer service.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// NewClient creates a client for the endpoint resolved from config
func NewClient(config Config, opts ...Option) (*Client, error) {
	endpoint, err := config.AskURL()
	if err != nil {
		return nil, err
	}
	return NewClientForURL(endpoint, opts...), nil
}

// NewClientForURL creates a client that posts to endpoint
func NewClientForURL(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL questions are posted to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Ask posts the question as a form and returns the answer.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	form := url.Values{}
	form.Set(FormField, question)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if result.Answer == nil {
		return "", ErrMissingAnswer
	}

	return *result.Answer, nil
}
