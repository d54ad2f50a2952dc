package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Remote adapts Client to the datasource.Source interface for one URL.
type Remote struct {
	client *Client
	url    string
}

// NewRemote returns a Remote source for url using client. A nil client gets
// defaults.
func NewRemote(client *Client, url string) *Remote {
	if client == nil {
		client = NewClient(Config{})
	}
	return &Remote{client: client, url: url}
}

// URL returns the configured URL.
func (r *Remote) URL() string { return r.url }

// Open issues the download and returns the response body. Non-2xx responses
// after retries are an error.
func (r *Remote) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := r.client.Get(ctx, r.url, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("httpds: get %s: unexpected status %s", r.url, resp.Status)
	}
	return resp.Body, nil
}
