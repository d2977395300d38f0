package lumasonic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Player defines the remote operations of the Lumasonic File Player.
// This interface is implemented by *Client and can be used for testing.
type Player interface {
	State(ctx context.Context) (PlayerState, error)
	PlaylistItems(ctx context.Context) ([]string, error)
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Stop(ctx context.Context) error
	Seek(ctx context.Context, unit SeekUnit, value float64) error
	SetGain(ctx context.Context, gain float64) error
	SetBrightness(ctx context.Context, brightness float64) error
	SetLoop(ctx context.Context, loop bool) error
	LoadPlaylistItem(ctx context.Context, index int) error
	LoadFile(ctx context.Context, path string) error
}

// Ensure Client implements Player at compile time.
var _ Player = (*Client)(nil)

// Observer receives the connectivity outcome of every invocation. err is nil
// when the player answered with a 2xx status, otherwise a *ConnectivityError.
type Observer interface {
	Observe(err error, polling bool)
}

// Client talks to the player HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	observer  Observer
}

const (
	defaultAddr      = "localhost:8080"
	defaultAPIPrefix = "/api/v1"
	defaultUserAgent = "lsfremote/0.1"
	requestTimeout   = 5 * time.Second
	maxResponseBody  = 1 << 20
)

// Option customizes a Client.
type Option func(*Client)

// WithObserver registers the connectivity observer fed by every call.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for addr, which may be host:port or a full URL.
// A URL without a path uses the default /api/v1 prefix.
func NewClient(addr string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(addr)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// State fetches the consolidated player snapshot. It is a polling call.
func (c *Client) State(ctx context.Context) (PlayerState, error) {
	var payload PlayerState
	if err := c.Invoke(ctx, OpState, nil, true, &payload); err != nil {
		return PlayerState{}, err
	}
	return payload, nil
}

// PlaylistItems fetches the ordered playlist item names. It is a polling call.
func (c *Client) PlaylistItems(ctx context.Context) ([]string, error) {
	var payload PlaylistItemsResponse
	if err := c.Invoke(ctx, OpPlaylistItems, nil, true, &payload); err != nil {
		return nil, err
	}
	if payload.Items == nil {
		return []string{}, nil
	}
	return payload.Items, nil
}

// Play starts or resumes playback.
func (c *Client) Play(ctx context.Context) error {
	return c.Invoke(ctx, OpPlay, nil, false, nil)
}

// Pause pauses playback.
func (c *Client) Pause(ctx context.Context) error {
	return c.Invoke(ctx, OpPause, nil, false, nil)
}

// Stop stops playback; the player rewinds to the start eventually.
func (c *Client) Stop(ctx context.Context) error {
	return c.Invoke(ctx, OpStop, nil, false, nil)
}

// Seek moves the playhead. Percent values are normalized (0..1).
func (c *Client) Seek(ctx context.Context, unit SeekUnit, value float64) error {
	if unit != UnitSeconds && unit != UnitPercent {
		return fmt.Errorf("unknown seek unit %q", unit)
	}
	return c.Invoke(ctx, OpTime, seekRequest{Unit: unit, Time: value}, false, nil)
}

// SetGain sets the output gain in [0,1].
func (c *Client) SetGain(ctx context.Context, gain float64) error {
	return c.Invoke(ctx, OpGain, gainRequest{Gain: gain}, false, nil)
}

// SetBrightness sets the light output brightness in [0,1].
func (c *Client) SetBrightness(ctx context.Context, brightness float64) error {
	return c.Invoke(ctx, OpBrightness, brightnessRequest{Brightness: brightness}, false, nil)
}

// SetLoop sets whether the current stream loops.
func (c *Client) SetLoop(ctx context.Context, loop bool) error {
	return c.Invoke(ctx, OpLoop, loopRequest{Loop: loop}, false, nil)
}

// LoadPlaylistItem switches the active track to the 0-based playlist index.
func (c *Client) LoadPlaylistItem(ctx context.Context, index int) error {
	if index < 0 {
		return fmt.Errorf("playlist index %d is negative", index)
	}
	return c.Invoke(ctx, OpLoadPlaylistItem, loadItemRequest{Index: index}, false, nil)
}

// LoadFile loads a file by absolute path on the player host.
func (c *Client) LoadFile(ctx context.Context, filePath string) error {
	if strings.TrimSpace(filePath) == "" {
		return fmt.Errorf("file path required")
	}
	return c.Invoke(ctx, OpLoadFile, loadFileRequest{Path: filePath}, false, nil)
}

// Invoke calls a named operation. payload, when non-nil, is sent as the JSON
// body; dest, when non-nil, receives the decoded response. polling only
// affects how the observer logs failures.
func (c *Client) Invoke(ctx context.Context, op string, payload any, polling bool, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", op, err)
		}
		body = bytes.NewReader(encoded)
	}

	reqURL := c.baseURL.JoinPath(op)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		// Cancellation is the caller leaving, not the player going away.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", op, ctxErr)
		}
		return c.fail(&ConnectivityError{Op: op, Err: err}, polling)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return c.fail(&ConnectivityError{Op: op, StatusCode: resp.StatusCode}, polling)
	}
	c.observe(nil, polling)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &ApplicationError{Op: op, Malformed: true, Err: err}
	}
	return decodeEnvelope(op, raw, dest)
}

func (c *Client) fail(err *ConnectivityError, polling bool) error {
	c.observe(err, polling)
	return err
}

func (c *Client) observe(err error, polling bool) {
	if c.observer != nil {
		c.observer.Observe(err, polling)
	}
}

func parseBaseURL(addr string) (*url.URL, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		trimmed = defaultAddr
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse player address %q: %w", addr, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("player address %q has no host", addr)
	}
	p := strings.TrimRight(u.Path, "/")
	if p == "" {
		p = defaultAPIPrefix
	}
	u.Path = path.Clean("/" + p)
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
