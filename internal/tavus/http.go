package tavus

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

type httpClient struct {
	inner *http.Client
}

// newHTTPClient keeps the platform default (no timeout) when timeout is 0.
func newHTTPClient(timeout time.Duration) *httpClient {
	if timeout < 0 {
		timeout = 0
	}
	return &httpClient{inner: &http.Client{Timeout: timeout}}
}

// postJSON returns the status and raw body of any response; err is only set
// when no response was read.
func (c *httpClient) postJSON(ctx context.Context, endpoint string, headers map[string]string, body any) (int, []byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	bodyRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, bodyRaw, nil
}
