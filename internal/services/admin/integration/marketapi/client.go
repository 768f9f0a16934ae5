// Package marketapi is the console's HTTP client for the marketplace REST API.
//
// A Client carries no credential of its own; WithSession returns a copy bound
// to one operator's Session, and every call made through it attaches that
// session's bearer token.
package marketapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apperrors "github.com/atlasdata/alfurij-admin/internal/platform/errors"
	"github.com/atlasdata/alfurij-admin/internal/platform/telemetry/metrics"
	"github.com/atlasdata/alfurij-admin/internal/platform/timeouts"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 16 << 20

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. https://api.example.com/api.
	BaseURL string
	// StorageURL is the host serving relative media paths under /storage.
	StorageURL string
	// HTTPClient overrides the default instrumented client.
	HTTPClient *http.Client
	// Timeout caps a single call; zero uses timeouts.APIRequest.
	Timeout time.Duration
	// Metrics records upstream call outcomes when set.
	Metrics *metrics.Registry
}

// Session is the operator credential returned by Login.
type Session struct {
	Token string
	Admin Admin
}

// Valid reports whether the session carries a token.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.Token) != ""
}

// Client calls the marketplace API.
type Client struct {
	baseURL    *url.URL
	storageURL string
	http       *http.Client
	timeout    time.Duration
	metrics    *metrics.Registry
	session    Session
}

// NewClient validates cfg and builds a Client without a session.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("marketapi: base url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("marketapi: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("marketapi: base url must be http(s), got %q", raw)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.APIRequest
	}

	storage := strings.TrimRight(strings.TrimSpace(cfg.StorageURL), "/")
	if storage == "" {
		storage = base.Scheme + "://" + base.Host
	}

	return &Client{
		baseURL:    base,
		storageURL: storage,
		http:       httpClient,
		timeout:    timeout,
		metrics:    cfg.Metrics,
	}, nil
}

// WithSession returns a copy of c that authenticates as session.
func (c *Client) WithSession(session Session) *Client {
	clone := *c
	clone.session = session
	return &clone
}

// Session returns the credential bound to c.
func (c *Client) Session() Session {
	return c.session
}

// call describes one API request.
type call struct {
	resource    string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	header      http.Header
	// fallback is the operator message used when the server sends none.
	fallback string
}

func jsonCall(resource, method, path string, payload any, fallback string) (call, error) {
	c := call{resource: resource, method: method, path: path, fallback: fallback}
	if payload == nil {
		return c, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return c, apperrors.Wrap(apperrors.CodeValidation, fallback, err)
	}
	c.body = bytes.NewReader(data)
	c.contentType = "application/json"
	return c, nil
}

// do performs the request and returns the raw 2xx body. Failures map onto
// the error taxonomy: transport, upstream status, or decode.
func (c *Client) do(ctx context.Context, req call) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.endpoint(req.path, req.query)
	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, req.body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTransport, req.fallback, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	for key, values := range req.header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if token := strings.TrimSpace(c.session.Token); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.metrics.ObserveUpstream(req.resource, req.method, 0, time.Since(start))
		return nil, apperrors.Wrap(apperrors.CodeTransport, req.fallback, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(req.resource, req.method, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTransport, req.fallback, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, upstreamError(resp.StatusCode, body, req.fallback)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(body) {
		return nil, apperrors.Wrap(apperrors.CodeDecode, req.fallback, fmt.Errorf("%s %s: response is not JSON", req.method, req.path))
	}
	return json.RawMessage(body), nil
}

// doInto performs the request and decodes a single resource into out,
// unwrapping data or one of keys.
func (c *Client) doInto(ctx context.Context, req call, out any, keys ...string) error {
	raw, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := decodeOne(raw, out, keys...); err != nil {
		return apperrors.Wrap(apperrors.CodeDecode, req.fallback, err)
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	escaped := strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + strings.TrimLeft(path, "/")
	if unescaped, err := url.PathUnescape(escaped); err == nil {
		u.Path = unescaped
		u.RawPath = escaped
	} else {
		u.Path = escaped
		u.RawPath = ""
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

func upstreamError(status int, body []byte, fallback string) error {
	var parsed errorBody
	_ = json.Unmarshal(body, &parsed)

	message := strings.TrimSpace(parsed.Message)
	if message == "" {
		message = strings.TrimSpace(parsed.Error)
	}
	if message == "" {
		message = fallback
	}
	err := apperrors.Upstream(status, message)
	if len(parsed.Errors) > 0 {
		err.Metadata = make(map[string]string, len(parsed.Errors))
		for field, messages := range parsed.Errors {
			if len(messages) > 0 {
				err.Metadata[field] = messages[0]
			}
		}
	}
	return err
}

// pathID escapes one path segment; callers build paths from escaped segments.
func pathID(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
