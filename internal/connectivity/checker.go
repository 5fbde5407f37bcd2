// Package connectivity gates sweeps on upstream network availability.
package connectivity

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// Checker issues a GET against a well-known endpoint
type Checker struct {
	url    string
	client *http.Client
}

// New creates a Checker for url with the given request timeout
func New(url string, timeout time.Duration) *Checker {
	return &Checker{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Check reports whether the endpoint answered 200 OK within the timeout
func (c *Checker) Check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		log.Warnf("Connectivity check request for %s: %v", c.url, err)
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debugf("Connectivity check failed: %v", err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
