package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Login error messages shown verbatim in the UI.
var (
	ErrInvalidCredentials = errors.New("Sai tài khoản hoặc mật khẩu")
	ErrLoginFailed        = errors.New("Đăng nhập thất bại, vui lòng thử lại sau")
)

// ErrUnauthorized is returned when the server rejects the bearer token.
// The session has already been cleared by the time the caller sees it.
var ErrUnauthorized = errors.New("unauthorized")

// Client makes REST calls to the monitoring backend. All authorized calls
// attach the session's bearer token; a 401 on any of them invalidates the
// session before returning ErrUnauthorized.
type Client struct {
	baseURL string
	session *Session
	client  *http.Client
	log     *zap.Logger
}

// New creates a client targeting the given base URL (e.g. "http://127.0.0.1:8000").
func New(baseURL string, session *Session, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// Session returns the session guard this client authenticates with.
func (c *Client) Session() *Session {
	return c.session
}

// Login exchanges credentials for a bearer token via a form-encoded POST,
// persists it and immediately verifies it to populate the identity.
func (c *Client) Login(username, password string) error {
	form := url.Values{
		"username": {username},
		"password": {password},
	}
	resp, err := c.client.PostForm(c.baseURL+"/api/auth/login", form)
	if err != nil {
		c.log.Warn("login request", zap.Error(err))
		return ErrLoginFailed
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidCredentials
	case resp.StatusCode >= 300:
		c.log.Warn("login rejected", zap.Int("status", resp.StatusCode))
		return ErrLoginFailed
	}

	var tok Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil || tok.AccessToken == "" {
		return ErrLoginFailed
	}
	c.session.SetToken(tok.AccessToken)

	if !c.Verify() {
		return ErrLoginFailed
	}
	return nil
}

// Verify re-validates the session against /api/auth/me. Any failure —
// network error or non-2xx — clears the session and reports false; it
// never returns an error to the caller.
func (c *Client) Verify() bool {
	if c.session.Token() == "" {
		return false
	}
	var id Identity
	if err := c.get("/api/auth/me", &id); err != nil {
		c.log.Info("verification failed", zap.Error(err))
		c.session.Clear()
		return false
	}
	c.session.setIdentity(&id)
	return true
}

// Initialize restores a persisted credential and verifies it once.
// It reports whether the session is currently valid.
func (c *Client) Initialize() bool {
	if !c.session.Load() {
		return false
	}
	return c.Verify()
}

// Logout cancels the session and wipes the persisted credential.
func (c *Client) Logout() {
	c.session.Clear()
}

// Stations fetches the authoritative station list.
func (c *Client) Stations() ([]StationSummary, error) {
	var out []StationSummary
	if err := c.get("/api/stations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StationDetail fetches one station's config, latest readings and history.
func (c *Client) StationDetail(id int) (*StationDetail, error) {
	var out StationDetail
	if err := c.get(fmt.Sprintf("/api/stations/%d/detail", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LongTermAnalysis fetches the displacement trend analysis over the given
// number of days. An insufficient_data response is not an error; it comes
// back in the Status/Message fields.
func (c *Client) LongTermAnalysis(id, days int) (*LongTermAnalysis, error) {
	var out LongTermAnalysis
	path := fmt.Sprintf("/api/stations/%d/long-term-analysis?days=%d", id, days)
	if err := c.get(path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HealthCheck probes /api/health without authentication.
func (c *Client) HealthCheck() (*Health, error) {
	resp, err := c.client.Get(c.baseURL + "/api/health")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("health: %d", resp.StatusCode)
	}
	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) get(path string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if tok := c.session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Clear()
		return ErrUnauthorized
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s: %d %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
