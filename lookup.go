package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const maxResponseBytes = 16 << 20

// lookupClient queries the item search API.
type lookupClient struct {
	apiBase   string
	proxyBase string
	useProxy  bool
	timeout   time.Duration
	http      *http.Client
}

func newLookupClient(cfg *Config) *lookupClient {
	return &lookupClient{
		apiBase:   cfg.APIBase,
		proxyBase: cfg.ProxyBase,
		useProxy:  cfg.UseProxy,
		timeout:   cfg.Timeout,
		http:      &http.Client{},
	}
}

func (c *lookupClient) requestURL(name string) string {
	u := c.apiBase + url.PathEscape(name)
	if c.useProxy {
		return c.proxyBase + url.QueryEscape(u)
	}
	return u
}

// Fetch returns the decoded search response for name. Through the proxy
// the payload arrives as a JSON string in the wrapper's "body" field.
func (c *lookupClient) Fetch(ctx context.Context, name string) (any, error) {
	q := strings.TrimSpace(name)
	if q == "" {
		return nil, fmt.Errorf("%w: please enter an item name", ErrEmptyResult)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.requestURL(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	slog.Debug("Item lookup", "query", q, "url", target, "proxy", c.useProxy)
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("API error: %s", res.Status)
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	data, err := decodeJSON(body)
	if err != nil {
		return nil, err
	}
	if !c.useProxy {
		return data, nil
	}

	wrapper, ok := data.(*jsonObject)
	if !ok {
		return data, nil
	}
	inner, ok := wrapper.get("body")
	if !ok {
		return data, nil
	}
	s, ok := inner.(string)
	if !ok {
		return data, nil
	}
	unwrapped, err := decodeJSON([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("proxy body parse failed: %w", err)
	}
	return unwrapped, nil
}

type lookupMsg struct {
	query string
	data  any
	err   error
}

func fetchCmd(c *lookupClient, query string) tea.Cmd {
	return func() tea.Msg {
		data, err := c.Fetch(context.Background(), query)
		return lookupMsg{query: query, data: data, err: err}
	}
}
