// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/services"
)

// MockSearch is a test double for [services.SearchProvider].
//
// Results are looked up by query; unknown queries return no candidates.
type MockSearch struct {
	mu      sync.Mutex
	Results map[string][]models.Candidate
	Err     error
	Queries []string
}

func (m *MockSearch) Search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	c := m.Results[query]
	if len(c) > limit {
		c = c[:limit]
	}
	return c, nil
}

// MockPlaylistSource is a test double for [services.PlaylistSource].
type MockPlaylistSource struct {
	Info    *models.PlaylistInfo
	Entries []models.TrackRequest
	Err     error
}

func (m *MockPlaylistSource) Playlist(ctx context.Context, playlistID string) (*models.PlaylistInfo, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Info, nil
}

func (m *MockPlaylistSource) Tracks(ctx context.Context, playlistID string) ([]models.TrackRequest, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Entries, nil
}

// MockDownloader is a test double for [services.DownloadProvider].
//
// Fetch writes "{outputDir}/{ProviderName}.{format}" unless the attempt is told to fail.
// FailFirst makes that many leading Fetch calls fail; FailAlways makes every call fail.
// SkipWrite simulates a provider that reports success without leaving the expected file.
type MockDownloader struct {
	mu           sync.Mutex
	ProviderName string
	FailFirst    int
	FailAlways   bool
	SkipWrite    bool
	FilenameErr  error
	FetchCalls   int
}

func (m *MockDownloader) Filename(ctx context.Context, url, outputDir string) (string, error) {
	if m.FilenameErr != nil {
		return "", m.FilenameErr
	}
	name := m.ProviderName
	if name == "" {
		name = "provider"
	}
	return filepath.Join(outputDir, name), nil
}

func (m *MockDownloader) Fetch(ctx context.Context, url, format, outputDir string) error {
	m.mu.Lock()
	m.FetchCalls++
	call := m.FetchCalls
	m.mu.Unlock()

	if m.FailAlways || call <= m.FailFirst {
		return fmt.Errorf("fetch attempt %d failed", call)
	}
	if m.SkipWrite {
		return nil
	}

	name, _ := m.Filename(ctx, url, outputDir)
	return os.WriteFile(name+"."+format, []byte("audio"), 0644)
}

// Calls returns the number of Fetch calls so far.
func (m *MockDownloader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchCalls
}

// MockTagWriter is a test double for [services.TagWriter].
type MockTagWriter struct {
	mu      sync.Mutex
	Err     error
	Written map[string]services.Tags
	// CoverSeen records whether the cover file existed while WriteTags ran.
	CoverSeen bool
}

func (m *MockTagWriter) WriteTags(path string, tags services.Tags) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tags.CoverPath != "" {
		if _, err := os.Stat(tags.CoverPath); err == nil {
			m.CoverSeen = true
		}
	}
	if m.Err != nil {
		return m.Err
	}
	if m.Written == nil {
		m.Written = make(map[string]services.Tags)
	}
	m.Written[path] = tags
	return nil
}

// Recorder collects error log entries in memory.
type Recorder struct {
	mu      sync.Mutex
	Entries []string
}

func (r *Recorder) Printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, fmt.Sprintf(format, args...))
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Entries)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
