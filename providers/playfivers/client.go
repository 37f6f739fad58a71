package playfivers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"casino/providers"
)

const (
	DefaultBaseURL = "https://api.playfivers.com"
	defaultTimeout = 15 * time.Second

	EndpointProviders = "/game/providers"
	EndpointGames     = "/game/list"
	EndpointOpenGame  = "/game/open"

	maxBodySnippet = 200
)

type Client struct {
	baseURL string
	creds   providers.Credentials
	http    *http.Client
}

func NewClient(creds providers.Credentials, opts providers.Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.ProxyURL != "" {
			if proxy, err := url.Parse(opts.ProxyURL); err == nil {
				transport.Proxy = http.ProxyURL(proxy)
			} else {
				slog.Warn("ignoring invalid aggregator proxy url", "error", err)
			}
		}
		httpClient = &http.Client{Timeout: timeout, Transport: transport}
	}

	return &Client{baseURL: baseURL, creds: creds, http: httpClient}
}

func init() {
	providers.Register("playfivers", func(creds providers.Credentials, opts providers.Options) providers.Aggregator {
		return NewClient(creds, opts)
	})
}

// Call POSTs payload to endpoint with the agent credentials merged in and
// returns the raw JSON body. Every failure is a *providers.CallError.
func (c *Client) Call(ctx context.Context, endpoint string, payload map[string]any) (json.RawMessage, error) {
	body := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["agent_token"] = c.creds.AgentToken
	body["secret_key"] = c.creds.SecretKey

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, &providers.CallError{Kind: providers.KindTransport, Endpoint: endpoint, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &providers.CallError{Kind: providers.KindTransport, Endpoint: endpoint, Message: transportMessage(err), Err: err}
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &providers.CallError{Kind: providers.KindTransport, Endpoint: endpoint, StatusCode: resp.StatusCode, Message: transportMessage(err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &providers.CallError{
			Kind:       providers.KindHTTP,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, snippet(text)),
		}
	}

	// Content-Type is not trusted; some gateways label JSON as text/html.
	trimmed := bytes.TrimSpace(text)
	if !json.Valid(trimmed) {
		return nil, &providers.CallError{
			Kind:       providers.KindMalformedResponse,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    "invalid JSON: " + snippet(text),
		}
	}

	if msg, failed := providerFailure(trimmed); failed {
		return nil, &providers.CallError{
			Kind:       providers.KindProviderError,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}

	return json.RawMessage(trimmed), nil
}

type envelope struct {
	Status  json.RawMessage `json:"status"`
	Error   json.RawMessage `json:"error"`
	Msg     string          `json:"msg"`
	Message string          `json:"message"`
}

// providerFailure reports whether a well-formed body signals an application
// error: status "error"/false/0, or a non-empty error field.
func providerFailure(body []byte) (string, bool) {
	if len(body) == 0 || body[0] != '{' {
		return "", false
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", false
	}

	errText, hasError := errorField(env.Error)
	if !hasError && !failedStatus(env.Status) {
		return "", false
	}

	switch {
	case env.Msg != "":
		return env.Msg, true
	case env.Message != "":
		return env.Message, true
	case errText != "":
		return errText, true
	}
	return "provider returned an error", true
}

func failedStatus(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "error", "fail", "failed", "false", "0":
			return true
		}
		return false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return !b
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String() == "0"
	}

	return false
}

func errorField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, strings.TrimSpace(s) != ""
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return "", b
	}

	// Numeric error codes: 0 means no error.
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		f, convErr := n.Float64()
		if convErr == nil && f == 0 {
			return "", false
		}
		return n.String(), true
	}

	var obj struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message, true
		}
		return obj.Msg, true
	}

	return string(raw), true
}

func transportMessage(err error) string {
	var netErr interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "request timed out: " + err.Error()
	}
	return err.Error()
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxBodySnippet {
		return s
	}
	return s[:maxBodySnippet]
}
