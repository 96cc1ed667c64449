package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/limitscan/limitscan/internal/model"
)

func TestStringSource(t *testing.T) {
	s := &StringSource{Content: samplePage}
	if s.Name() != "string" {
		t.Errorf("default name = %q, want string", s.Name())
	}
	s.Label = "upload-1"
	if s.Name() != "upload-1" {
		t.Errorf("labeled name = %q, want upload-1", s.Name())
	}

	results, err := s.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Source != model.SourceString {
		t.Errorf("source kind = %q, want string", results[0].Source)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.html")
	if err := os.WriteFile(path, []byte(samplePage), 0644); err != nil {
		t.Fatal(err)
	}

	s := &FileSource{Path: path, Club: "LG Teststadt"}
	if s.Name() != path {
		t.Errorf("name = %q, want path", s.Name())
	}

	results, err := s.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 club-filtered results, got %d", len(results))
	}
	if results[0].Source != model.SourceFile {
		t.Errorf("source kind = %q, want file", results[0].Source)
	}
}

func TestFileSource_Missing(t *testing.T) {
	s := &FileSource{Path: filepath.Join(t.TempDir(), "absent.html")}
	if _, err := s.Extract(context.Background()); err == nil {
		t.Errorf("expected error for missing file")
	}
}

type stubFetcher struct {
	body string
	err  error
}

func (f *stubFetcher) FetchBody(ctx context.Context, url string) (string, error) {
	return f.body, f.err
}

func TestURLSource(t *testing.T) {
	s := &URLSource{
		URL:     "https://results.example.org/meet/1",
		Fetcher: &stubFetcher{body: samplePage},
	}
	if s.Name() != s.URL {
		t.Errorf("name = %q, want the URL", s.Name())
	}

	results, err := s.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Source != model.SourceURL {
		t.Errorf("source kind = %q, want url", results[0].Source)
	}
}

func TestURLSource_FetchError(t *testing.T) {
	s := &URLSource{
		URL:     "https://results.example.org/meet/1",
		Fetcher: &stubFetcher{err: errors.New("robots.txt disallows")},
	}
	if _, err := s.Extract(context.Background()); err == nil {
		t.Errorf("expected fetch error to surface")
	}
}
