package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"
)

// MaxModelBytes caps the size of a downloaded model.
const MaxModelBytes = 256 << 20

// Source locates a model: an http(s) URL or a local file path.
type Source struct {
	Location string
	Client   *http.Client // optional, for remote sources
}

// NewSource creates a source for location.
func NewSource(location string) Source {
	return Source{Location: location}
}

// IsRemote reports whether the source is fetched over HTTP.
func (s Source) IsRemote() bool {
	l := strings.ToLower(s.Location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Name returns the last path element, for logging.
func (s Source) Name() string {
	loc := s.Location
	if i := strings.IndexAny(loc, "?#"); i >= 0 {
		loc = loc[:i]
	}
	return path.Base(loc)
}

// Fetch returns the raw model bytes. Remote fetches honour ctx cancellation.
func (s Source) Fetch(ctx context.Context) ([]byte, error) {
	if s.Location == "" {
		return nil, fmt.Errorf("empty model location")
	}
	if !s.IsRemote() {
		data, err := os.ReadFile(s.Location)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.Location, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", s.Name(), resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxModelBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Name(), err)
	}
	if len(data) > MaxModelBytes {
		return nil, fmt.Errorf("fetching %s: model larger than %d bytes", s.Name(), MaxModelBytes)
	}
	return data, nil
}
