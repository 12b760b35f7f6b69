// Package loader fetches the publication document from a file or URL.
package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/publist/publist/internal/publication"
)

// Source fetches a publication document.
type Source interface {
	Fetch(ctx context.Context) (publication.Document, error)
	// Raw returns the undecoded document bytes.
	Raw(ctx context.Context) ([]byte, error)
	String() string
}

// New returns a Source for the given location: an http(s) URL or a file path.
// timeout bounds HTTP fetches; zero means no timeout.
func New(location string, timeout time.Duration) Source {
	if IsURL(location) {
		return &HTTPSource{URL: location, Client: &http.Client{Timeout: timeout}}
	}
	return &FileSource{Path: location}
}

// IsURL reports whether location should be fetched over HTTP.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// FileSource reads the document from the local filesystem.
type FileSource struct {
	Path string
}

func (s *FileSource) Raw(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	return data, nil
}

func (s *FileSource) Fetch(ctx context.Context) (publication.Document, error) {
	data, err := s.Raw(ctx)
	if err != nil {
		return publication.Document{}, err
	}
	return publication.DecodeBytes(data)
}

func (s *FileSource) String() string { return s.Path }

// HTTPSource fetches the document with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("network response was not ok: %d", e.StatusCode)
}

func (s *HTTPSource) Raw(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}

func (s *HTTPSource) Fetch(ctx context.Context) (publication.Document, error) {
	data, err := s.Raw(ctx)
	if err != nil {
		return publication.Document{}, err
	}
	return publication.DecodeBytes(data)
}

func (s *HTTPSource) String() string { return s.URL }
