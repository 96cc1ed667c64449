// Package source turns heterogeneous result inputs (database rows, HTML
// documents, remote URLs, in-memory strings) into a uniform sequence of
// raw results. Adapters never reach the network or filesystem beyond
// what their construction names, and they filter unparsable entries so
// that every emitted result carries a comparable performance value.
package source

import (
	"context"
	"fmt"
	"os"

	"github.com/limitscan/limitscan/internal/model"
)

// Source is one independent result input. Extraction order is not
// significant downstream, so sources may run concurrently.
type Source interface {
	// Name identifies the source in logs and error messages.
	Name() string

	// Extract produces the source's raw results. A failing source
	// returns an error and contributes nothing; it never aborts the run.
	Extract(ctx context.Context) ([]model.RawResult, error)
}

// PageFetcher retrieves the body of a remote result page. Implemented by
// the pipeline's fetcher; sources only depend on the interface.
type PageFetcher interface {
	FetchBody(ctx context.Context, url string) (string, error)
}

// StringSource extracts results from content the caller already read.
type StringSource struct {
	Label   string
	Content string
	Club    string
}

func (s *StringSource) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return "string"
}

func (s *StringSource) Extract(ctx context.Context) ([]model.RawResult, error) {
	return extractResults(s.Content, s.Club, model.SourceString), nil
}

// FileSource extracts results from an HTML file on disk.
type FileSource struct {
	Path string
	Club string
}

func (s *FileSource) Name() string { return s.Path }

func (s *FileSource) Extract(ctx context.Context) ([]model.RawResult, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return extractResults(string(data), s.Club, model.SourceFile), nil
}

// URLSource fetches a result page and extracts it like an uploaded
// document. Fetching is the only suspension point; rate limiting,
// robots compliance and caching live behind the PageFetcher.
type URLSource struct {
	URL     string
	Club    string
	Fetcher PageFetcher
}

func (s *URLSource) Name() string { return s.URL }

func (s *URLSource) Extract(ctx context.Context) ([]model.RawResult, error) {
	body, err := s.Fetcher.FetchBody(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	return extractResults(body, s.Club, model.SourceURL), nil
}
