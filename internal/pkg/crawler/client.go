// Package crawler talks to the external reservation crawler service.
package crawler

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
	"os"
	"strings"
	"syscall"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client represents the crawler webhook HTTP client.
type Client struct {
	webhookURL string
	http       *http.Client
}

// NewClient creates a new crawler client. The crawl itself runs inside the
// request, so the timeout has to cover a full scrape pass.
func NewClient(webhookURL string, timeout time.Duration) *Client {
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

	return &Client{
		webhookURL: strings.TrimSpace(webhookURL),
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Trigger asks the crawler to run a scrape pass now.
func (c *Client) Trigger(ctx context.Context) error {
	if c == nil || c.http == nil {
		return fmt.Errorf("crawler trigger request error: client is nil")
	}
	if c.webhookURL == "" {
		return fmt.Errorf("crawler trigger config error: webhook_url is empty")
	}

	payload, err := json.Marshal(map[string]string{"trigger": "manual"})
	if err != nil {
		return fmt.Errorf("crawler trigger request error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("crawler trigger request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("crawler trigger http error: status=%d body=<failed to read body: %v>", resp.StatusCode, readErr)
	}

	return fmt.Errorf("crawler trigger http error: status=%d body=%s", resp.StatusCode, string(body))
}

func classifyRequestError(ctx context.Context, err error) error {
	if isTimeoutError(ctx, err) {
		return fmt.Errorf("crawler trigger timeout: %w", err)
	}
	if isNetworkError(err) {
		return fmt.Errorf("crawler trigger network error: %w", err)
	}
	return fmt.Errorf("crawler trigger request error: %w", err)
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}

	return false
}
