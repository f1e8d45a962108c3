package gcal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// Event is the calendar event resource, request and response shape.
type Event struct {
	ID          string      `json:"id,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	Description string      `json:"description,omitempty"`
	ColorID     string      `json:"colorId,omitempty"`
	Start       *EventTime  `json:"start,omitempty"`
	End         *EventTime  `json:"end,omitempty"`
	Attendees   []Attendee  `json:"attendees,omitempty"`
}

// EventTime holds either an all-day date or a zoned date-time.
type EventTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Attendee is an event attendee to invite.
type Attendee struct {
	Email string `json:"email"`
}

// Calendar is the calendar resource used when provisioning actor calendars.
type Calendar struct {
	ID       string `json:"id,omitempty"`
	Summary  string `json:"summary"`
	TimeZone string `json:"timeZone,omitempty"`
}

// ACLRule grants calendar access to a user.
type ACLRule struct {
	Role  string   `json:"role"`
	Scope ACLScope `json:"scope"`
}

// ACLScope identifies who an ACL rule applies to.
type ACLScope struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Client is a REST client for the calendar provider API.
type Client struct {
	baseURL string
	tokens  *tokenSource
	http    *http.Client
}

// Config configures the calendar provider client.
type Config struct {
	BaseURL             string
	TokenURL            string
	ServiceAccountEmail string
	ServiceAccountKey   string // PEM-encoded RSA private key
	Timeout             time.Duration
}

// NewClient creates a calendar provider client. Returns an error when the
// service account key cannot be parsed.
func NewClient(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}

	tokens, err := newTokenSource(cfg.TokenURL, cfg.ServiceAccountEmail, cfg.ServiceAccountKey, httpClient)
	if err != nil {
		return nil, fmt.Errorf("gcal client config error: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tokens:  tokens,
		http:    httpClient,
	}, nil
}

// InsertEvent creates an event on a calendar. sendUpdates is "all" or "none".
func (c *Client) InsertEvent(ctx context.Context, calendarID string, ev *Event, sendUpdates string) (string, error) {
	path := fmt.Sprintf("/calendars/%s/events?sendUpdates=%s", url.PathEscape(calendarID), sendUpdatesParam(sendUpdates))

	var created Event
	if err := c.do(ctx, http.MethodPost, path, ev, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// PatchEvent partially updates an event. Only non-zero fields of patch are sent.
func (c *Client) PatchEvent(ctx context.Context, calendarID, eventID string, patch map[string]interface{}, sendUpdates string) error {
	path := fmt.Sprintf("/calendars/%s/events/%s?sendUpdates=%s",
		url.PathEscape(calendarID), url.PathEscape(eventID), sendUpdatesParam(sendUpdates))
	return c.do(ctx, http.MethodPatch, path, patch, nil)
}

// DeleteEvent removes an event from a calendar.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID, sendUpdates string) error {
	path := fmt.Sprintf("/calendars/%s/events/%s?sendUpdates=%s",
		url.PathEscape(calendarID), url.PathEscape(eventID), sendUpdatesParam(sendUpdates))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// InsertCalendar creates a new calendar and returns its id.
func (c *Client) InsertCalendar(ctx context.Context, summary, timeZone string) (string, error) {
	var created Calendar
	err := c.do(ctx, http.MethodPost, "/calendars", &Calendar{Summary: summary, TimeZone: timeZone}, &created)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// ShareCalendar grants a user access to a calendar.
func (c *Client) ShareCalendar(ctx context.Context, calendarID, email, role string) error {
	path := fmt.Sprintf("/calendars/%s/acl", url.PathEscape(calendarID))
	rule := &ACLRule{
		Role:  role,
		Scope: ACLScope{Type: "user", Value: email},
	}
	return c.do(ctx, http.MethodPost, path, rule, nil)
}

func sendUpdatesParam(v string) string {
	if v == "all" {
		return "all"
	}
	return "none"
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c == nil || c.http == nil {
		return errors.New("gcal request error: client is nil")
	}
	if c.baseURL == "" {
		return errors.New("gcal config error: base_url is empty")
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("gcal auth error: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gcal request error: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("gcal request error: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil && resp.StatusCode != http.StatusNoContent {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("gcal response error: %w", err)
			}
		}
		return nil
	}

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if readErr != nil {
		return fmt.Errorf("gcal http error: status=%d body=<failed to read body: %v>", resp.StatusCode, readErr)
	}
	return fmt.Errorf("gcal http error: status=%d body=%s", resp.StatusCode, string(respBody))
}

func classifyRequestError(ctx context.Context, err error) error {
	if isTimeoutError(ctx, err) {
		return fmt.Errorf("gcal timeout: %w", err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var opErr *net.OpError
		var dnsErr *net.DNSError
		if errors.As(urlErr.Err, &opErr) || errors.As(urlErr.Err, &dnsErr) {
			return fmt.Errorf("gcal network error: %w", err)
		}
	}
	return fmt.Errorf("gcal request error: %w", err)
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
