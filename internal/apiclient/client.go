// Package apiclient talks to the timesheet HTTP API on behalf of the clock
// CLI.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-timesheet/internal/geolocation"
	"go-timesheet/internal/tracker"
	"go-timesheet/internal/workday"

	"go.uber.org/zap"
)

const (
	apiPrefix         = "/api/v1"
	idempotencyHeader = "Idempotency-Key"
	clientTypeHeader  = "X-Client-Type"
	defaultTimeout    = 15 * time.Second
)

var _ tracker.Store = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.Named("apiclient")
		}
	}
}

// WithUserAgent sets the User-Agent header, "clock/dev" by default.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// OnSessionChange is called after login and after every token refresh so the
// caller can persist the new session.
func OnSessionChange(fn func(Session)) Option {
	return func(c *Client) { c.onSession = fn }
}

type Client struct {
	baseURL   string
	http      *http.Client
	logger    *zap.Logger
	userAgent string
	onSession func(Session)

	mu      sync.RWMutex
	session Session
}

func New(baseURL string, session Session, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: defaultTimeout},
		logger:    zap.L().Named("apiclient"),
		userAgent: "clock/dev",
		session:   session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the current session, including refreshed tokens.
func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) setSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	if c.onSession != nil {
		c.onSession(s)
	}
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var out tokenPayload
	body := map[string]string{"email": email, "password": password}
	if err := c.send(ctx, http.MethodPost, "/auth/login", body, nil, false, &out); err != nil {
		return Session{}, err
	}
	s := out.session()
	c.setSession(s)
	return s, nil
}

// Refresh exchanges the refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context) error {
	current := c.Session()
	if current.RefreshToken == "" {
		return ErrNotLoggedIn
	}
	var out tokenPayload
	body := map[string]string{"refresh_token": current.RefreshToken}
	if err := c.send(ctx, http.MethodPost, "/auth/refresh", body, nil, false, &out); err != nil {
		return err
	}
	c.setSession(out.session())
	c.logger.Debug("session refreshed", zap.String("user_id", out.User.ID))
	return nil
}

func (c *Client) Today(ctx context.Context) (workday.Entry, error) {
	var e workday.Entry
	if err := c.call(ctx, http.MethodGet, "/timesheet/today", nil, nil, &e); err != nil {
		return workday.Entry{}, err
	}
	return e, nil
}

type locationBody struct {
	Location *geolocation.Location `json:"location,omitempty"`
}

type pauseBody struct {
	Reason   string                `json:"reason"`
	Location *geolocation.Location `json:"location,omitempty"`
}

type signatureBody struct {
	Signature string `json:"signature"`
}

// Apply sends cmd to the matching transition endpoint. The operation id
// travels as the Idempotency-Key so a retried action is replayed, not
// applied twice.
func (c *Client) Apply(ctx context.Context, cmd tracker.Command) (workday.Entry, error) {
	var (
		path string
		body any
	)
	switch cmd.Action {
	case workday.ActionStart:
		path, body = "/timesheet/today/start", locationBody{Location: cmd.Location}
	case workday.ActionPause:
		path, body = "/timesheets/"+url.PathEscape(cmd.EntryID)+"/pause", pauseBody{Reason: cmd.Reason, Location: cmd.Location}
	case workday.ActionResume:
		path, body = "/timesheets/"+url.PathEscape(cmd.EntryID)+"/resume", locationBody{Location: cmd.Location}
	case workday.ActionEnd:
		path, body = "/timesheets/"+url.PathEscape(cmd.EntryID)+"/end", locationBody{Location: cmd.Location}
	case workday.ActionSign:
		path, body = "/timesheets/"+url.PathEscape(cmd.EntryID)+"/signature", signatureBody{Signature: cmd.Signature}
	default:
		return workday.Entry{}, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}
	if cmd.Action != workday.ActionStart && cmd.EntryID == "" {
		return workday.Entry{}, ErrMissingEntry
	}

	var headers map[string]string
	if cmd.OperationID != "" {
		headers = map[string]string{idempotencyHeader: cmd.OperationID}
	}

	var e workday.Entry
	if err := c.call(ctx, http.MethodPost, path, body, headers, &e); err != nil {
		return workday.Entry{}, err
	}
	return e, nil
}

type MonthlySummary struct {
	EmployeeID   string           `json:"employee_id"`
	EmployeeName string           `json:"employee_name,omitempty"`
	Year         int              `json:"year"`
	Months       []workday.Bucket `json:"months"`
	Total        workday.Bucket   `json:"total"`
}

type WeeklySummary struct {
	EmployeeID string           `json:"employee_id"`
	WeekStart  string           `json:"week_start"`
	WeekEnd    string           `json:"week_end"`
	Days       []workday.Bucket `json:"days"`
	Total      workday.Bucket   `json:"total"`
}

func (c *Client) Monthly(ctx context.Context, year int) (MonthlySummary, error) {
	q := url.Values{}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	var out MonthlySummary
	if err := c.call(ctx, http.MethodGet, withQuery("/reports/monthly", q), nil, nil, &out); err != nil {
		return MonthlySummary{}, err
	}
	return out, nil
}

// Weekly returns the week containing weekOf (YYYY-MM-DD, today when empty).
func (c *Client) Weekly(ctx context.Context, weekOf string) (WeeklySummary, error) {
	q := url.Values{}
	if weekOf != "" {
		q.Set("week_of", weekOf)
	}
	var out WeeklySummary
	if err := c.call(ctx, http.MethodGet, withQuery("/reports/weekly", q), nil, nil, &out); err != nil {
		return WeeklySummary{}, err
	}
	return out, nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// call sends an authenticated request. A 401 triggers one refresh and one
// retry with the new access token.
func (c *Client) call(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	if !c.Session().Authenticated() {
		return ErrNotLoggedIn
	}
	err := c.send(ctx, method, path, body, headers, true, out)
	if !IsUnauthorized(err) || c.Session().RefreshToken == "" {
		return err
	}

	c.logger.Debug("access token rejected, refreshing", zap.String("path", path))
	if rerr := c.Refresh(ctx); rerr != nil {
		c.logger.Warn("refresh failed", zap.Error(rerr))
		return err
	}
	return c.send(ctx, method, path, body, headers, true, out)
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) send(ctx context.Context, method, path string, body any, headers map[string]string, auth bool, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(clientTypeHeader, "cli")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.Session().AccessToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{Status: resp.StatusCode, Code: "BAD_RESPONSE", Message: fmt.Sprintf("unreadable response (%d)", resp.StatusCode)}
	}
	if !env.Ok || resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
