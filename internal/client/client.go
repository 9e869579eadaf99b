package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/fabricsnap/fabricsnap/internal/model"
)

// APICClient defines the interface for fetching managed-object classes from
// a fabric controller. Each fetch returns the decoded record sequence of one
// class query; normalization into canonical entities happens downstream.
type APICClient interface {
	Login(ctx context.Context) error
	Controllers(ctx context.Context) ([]model.RawRecord, error)
	TopSystems(ctx context.Context) ([]model.RawRecord, error)
	CPUStats(ctx context.Context) ([]model.RawRecord, error)
	MemoryStats(ctx context.Context) ([]model.RawRecord, error)
	FabricHealth(ctx context.Context) ([]model.RawRecord, error)
	Faults(ctx context.Context, q FaultQuery) ([]model.RawRecord, error)
	Interfaces(ctx context.Context) ([]model.RawRecord, error)
	Endpoints(ctx context.Context) ([]model.RawRecord, error)
	Routes(ctx context.Context) ([]model.RawRecord, error)
	InterfaceErrors(ctx context.Context) ([]model.RawRecord, error)
	EtherStats(ctx context.Context) ([]model.RawRecord, error)
	EgressCounters(ctx context.Context) ([]model.RawRecord, error)
	OutputCounters(ctx context.Context) ([]model.RawRecord, error)
	Dot3Stats(ctx context.Context) ([]model.RawRecord, error)
	Host() string
}

// ClientConfig holds configuration for DefaultClient. Credentials come from
// the caller's configuration layer; the client never defaults them.
type ClientConfig struct {
	Host               string // controller address, optionally with port
	Username           string
	Password           string
	InsecureSkipVerify bool
	RequestTimeout     time.Duration
}

// DefaultClient implements APICClient over the controller's REST API.
// Authentication is cookie-based: Login posts the credentials once and the
// session cookie rides along on every later request via the cookie jar.
type DefaultClient struct {
	http   *http.Client
	config ClientConfig
}

// NewDefaultClient constructs a DefaultClient from the given config.
// Returns an error if Host is empty.
func NewDefaultClient(cfg ClientConfig) (*DefaultClient, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("Host is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	return &DefaultClient{
		http: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
			Jar:       jar,
		},
		config: cfg,
	}, nil
}

// Host returns the configured controller address.
func (c *DefaultClient) Host() string {
	return c.config.Host
}

// baseURL returns the controller origin. A bare host gets the https scheme;
// a host that already carries a scheme is used as-is, which also lets tests
// point the client at a plain-HTTP server.
func (c *DefaultClient) baseURL() string {
	if strings.Contains(c.config.Host, "://") {
		return strings.TrimRight(c.config.Host, "/")
	}
	return "https://" + c.config.Host
}

// loginPayload is the aaaLogin request body.
type loginPayload struct {
	AaaUser struct {
		Attributes struct {
			Name string `json:"name"`
			Pwd  string `json:"pwd"`
		} `json:"attributes"`
	} `json:"aaaUser"`
}

// Login authenticates against the controller and stores the session cookie
// in the jar. Bad credentials come back as HTTP 200 with an error entry in
// the envelope, so the body is inspected as well as the status.
func (c *DefaultClient) Login(ctx context.Context) error {
	var payload loginPayload
	payload.AaaUser.Attributes.Name = c.config.Username
	payload.AaaUser.Attributes.Pwd = c.config.Password

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("Login: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+pathLogin, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("Login: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("Login: do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("Login: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Login: unexpected status %d: %s", resp.StatusCode, truncate(respBody, 200))
	}
	if msg, failed := loginError(respBody); failed {
		return fmt.Errorf("Login: authentication failed: %s", msg)
	}
	return nil
}

// loginError reports whether the login envelope carries an error entry and
// returns its text.
func loginError(body []byte) (string, bool) {
	var envelope struct {
		Imdata []map[string]struct {
			Attributes struct {
				Code string `json:"code"`
				Text string `json:"text"`
			} `json:"attributes"`
		} `json:"imdata"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", false
	}
	for _, entry := range envelope.Imdata {
		if e, ok := entry["error"]; ok {
			if e.Attributes.Text != "" {
				return e.Attributes.Text, true
			}
			return "code " + e.Attributes.Code, true
		}
	}
	return "", false
}

const maxResponseBytes = 32 * 1024 * 1024 // 32 MB; endpoint dumps on a large fabric stay well under this

// doGet performs a GET request to the given path (relative to the controller
// origin). Returns the response body bytes or an error on non-2xx status.
func (c *DefaultClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

// getClass fetches one managed-object class endpoint and decodes its
// envelope. rawQuery is appended verbatim when non-empty.
func (c *DefaultClient) getClass(ctx context.Context, class, rawQuery string) ([]model.RawRecord, error) {
	path := "/api/node/class/" + class + ".json"
	if rawQuery != "" {
		path += "?" + rawQuery
	}
	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, err
	}
	return model.DecodeEnvelope(body)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
