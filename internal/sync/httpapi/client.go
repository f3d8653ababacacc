// Package httpapi is the reference Backend implementation speaking
// JSON over HTTP. Any backend honoring the same request/response shapes
// works; the sync engine itself depends only on the sync.Backend contract.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/akarpovs/shelfkeeper/internal/common"
	syncx "github.com/akarpovs/shelfkeeper/internal/sync"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	hc      *http.Client
}

// New returns a Client for the backend at baseURL (e.g. "https://host:8443").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: defaultTimeout},
	}
}

// Push sends an item delta to POST /v1/push.
func (c *Client) Push(ctx context.Context, delta syncx.Delta) (syncx.PushResult, error) {
	var res syncx.PushResult
	if err := c.post(ctx, "/v1/push", delta, &res); err != nil {
		return syncx.PushResult{}, err
	}
	return res, nil
}

// Pull requests changes since cursor from GET /v1/changes.
func (c *Client) Pull(ctx context.Context, cursor string) (syncx.PullResult, error) {
	u := c.baseURL + "/v1/changes?cursor=" + url.QueryEscape(cursor)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return syncx.PullResult{}, err
	}

	var res syncx.PullResult
	if err := c.do(req, &res); err != nil {
		return syncx.PullResult{}, err
	}
	return res, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", common.ErrBackendUnavailable, req.URL.Path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
