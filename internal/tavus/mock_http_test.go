package tavus

import (
	"net/http"

	"agronomo-ia/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(cfg config.TavusConfig, fn roundTripFunc) *Client {
	c := NewClient(cfg)
	c.http = &httpClient{inner: &http.Client{Transport: fn}}
	return c
}

func fullConfig(baseURL string) config.TavusConfig {
	return config.TavusConfig{
		APIKey:    "key-1",
		ReplicaID: "replica-1",
		PersonaID: "persona-1",
		BaseURL:   baseURL,
		Language:  "spanish",
	}
}
