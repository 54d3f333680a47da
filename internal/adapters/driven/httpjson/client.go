// Package httpjson is the JSON-over-HTTP client shared by the embedding and
// LLM provider adapters.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

// maxBody caps how much of a response is read.
const maxBody = 64 << 20

// Client sends requests to one provider's API.
type Client struct {
	provider string
	baseURL  string
	header   http.Header
	http     *http.Client
}

// New returns a client for baseURL. header is added to every request;
// provider prefixes error messages.
func New(provider, baseURL string, timeout time.Duration, header http.Header) *Client {
	return &Client{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		header:   header,
		http:     &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Post encodes in as the request body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encoding request: %w", c.provider, err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), out)
}

// Get fetches path and discards the body. Adapters use it as a cheap
// reachability and credentials check.
func (c *Client) Get(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodGet, path, http.NoBody, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", c.provider, err)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", c.provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%s: reading response: %w", c.provider, err)
	}

	// Some servers report failures in the body of a 200.
	msg := errorMessage(raw)
	if resp.StatusCode/100 != 2 || msg != "" {
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return &StatusError{Provider: c.provider, Code: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", c.provider, err)
	}
	return nil
}

// StatusError is a provider-reported failure.
type StatusError struct {
	Provider string
	Code     int
	Message  string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if len(msg) > 512 {
		msg = msg[:512] + "..."
	}
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Code, msg)
}

// Unwrap maps HTTP 429 to domain.ErrRateLimited.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}
	return nil
}

// errorMessage extracts the "error" member used by Ollama ("error": "text")
// and by OpenAI and Anthropic ("error": {"message": "text"}).
func errorMessage(raw []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) != nil || len(envelope.Error) == 0 {
		return ""
	}

	var text string
	if json.Unmarshal(envelope.Error, &text) == nil {
		return text
	}
	var detail struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(envelope.Error, &detail) == nil {
		return detail.Message
	}
	return ""
}
