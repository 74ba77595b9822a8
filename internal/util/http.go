package util

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrStatus = errors.New("unexpected http status")

// DefaultClient has no cookie jar, so fetches never carry credentials.
var DefaultClient = &http.Client{Timeout: 12 * time.Second}

// GetBytes fetches url and returns at most limit bytes of the body.
// A limit of zero or less reads the whole body.
func GetBytes(ctx context.Context, client *http.Client, url string, limit int64) ([]byte, string, error) {
	if client == nil {
		client = DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "image/*")
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	var r io.Reader = resp.Body
	if limit > 0 {
		r = io.LimitReader(resp.Body, limit+1)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	if limit > 0 && int64(len(b)) > limit {
		return nil, "", fmt.Errorf("response from %s exceeds %d bytes", url, limit)
	}
	return b, resp.Header.Get("Content-Type"), nil
}
