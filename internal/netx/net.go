// Package netx holds small HTTP helpers shared by the persistence
// layer.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// FetchNoCache issues a GET for url with a cache-busting query
// parameter appended, so stale copies held by CDNs or intermediary
// caches are bypassed. Returns the response body on 2xx.
func FetchNoCache(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	sep := "?"
	for _, r := range url {
		if r == '?' {
			sep = "&"
			break
		}
	}
	busted := url + sep + "t=" + strconv.FormatInt(time.Now().UnixNano(), 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, busted, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch failed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}
