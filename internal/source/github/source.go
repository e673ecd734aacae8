package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"resource_hub/internal/domain"
	"resource_hub/internal/frontmatter"
	"resource_hub/internal/source/httpx"
)

const (
	SourceID   = "github"
	SourceName = "GitHub repository contents"

	defaultAPIBaseURL  = "https://api.github.com"
	defaultConcurrency = 4
)

// DocumentCache stores raw documents by repository path and blob sha.
type DocumentCache interface {
	Get(path, sha string) ([]byte, bool, error)
	Put(path, sha string, content []byte) error
}

type Config struct {
	APIBaseURL  string
	Owner       string
	Repo        string
	Branch      string
	Token       string
	Dirs        map[domain.Collection]string
	Concurrency int
}

// Source lists a content directory through the contents API and downloads
// every markdown file in it.
type Source struct {
	client      *httpx.Client
	cfg         Config
	cache       DocumentCache
	concurrency int
	logger      *slog.Logger
}

// New creates a GitHub source. cache may be nil.
func New(cfg Config, client *httpx.Client, cache DocumentCache, logger *slog.Logger) *Source {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Source{
		client:      client,
		cfg:         cfg,
		cache:       cache,
		concurrency: concurrency,
		logger:      logger.With("source", SourceID),
	}
}

func (s *Source) ID() string {
	return SourceID
}

func (s *Source) Name() string {
	return SourceName
}

// Fetch lists the collection directory and parses each markdown file.
// Files that fail to download are left out and counted in FailedFiles.
func (s *Source) Fetch(ctx context.Context, collection domain.Collection) (*domain.FetchResult, error) {
	dir, ok := s.cfg.Dirs[collection]
	if !ok || dir == "" {
		return nil, fmt.Errorf("no directory configured for %s", collection)
	}

	entries, err := s.list(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	files := markdownFiles(entries)
	s.logger.Debug("listed directory",
		"collection", collection,
		"entries", len(entries),
		"markdown", len(files),
	)

	records := make([]*domain.RawRecord, len(files))
	var (
		mu     sync.Mutex
		failed int
	)

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Go(func() {
			sem <- struct{}{}
			defer func() { <-sem }()

			raw, err := s.download(ctx, file)
			if err != nil {
				s.logger.Warn("failed to load file", "file", file.Name, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			doc := frontmatter.Parse(string(raw))
			records[i] = &domain.RawRecord{
				ID:     strings.TrimSuffix(file.Name, ".md"),
				Fields: doc.Fields,
				Body:   doc.Body,
			}
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &domain.FetchResult{
		Records:     make([]domain.RawRecord, 0, len(files)),
		FailedFiles: failed,
	}
	for _, r := range records {
		if r != nil {
			result.Records = append(result.Records, *r)
		}
	}
	return result, nil
}

func (s *Source) list(ctx context.Context, dir string) ([]ContentEntry, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		strings.TrimRight(s.cfg.APIBaseURL, "/"),
		url.PathEscape(s.cfg.Owner),
		url.PathEscape(s.cfg.Repo),
		strings.Trim(dir, "/"),
	)
	if s.cfg.Branch != "" {
		endpoint += "?ref=" + url.QueryEscape(s.cfg.Branch)
	}

	header := s.header()
	header.Set("Accept", "application/vnd.github+json")

	var entries []ContentEntry
	if err := s.client.GetJSON(ctx, endpoint, header, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Source) download(ctx context.Context, file ContentEntry) ([]byte, error) {
	if s.cache != nil && file.SHA != "" {
		raw, ok, err := s.cache.Get(file.Path, file.SHA)
		if err != nil {
			s.logger.Warn("cache read failed", "file", file.Path, "error", err)
		} else if ok {
			return raw, nil
		}
	}

	raw, err := s.client.Get(ctx, file.DownloadURL, s.header())
	if err != nil {
		return nil, err
	}

	if s.cache != nil && file.SHA != "" {
		if err := s.cache.Put(file.Path, file.SHA, raw); err != nil {
			s.logger.Warn("cache write failed", "file", file.Path, "error", err)
		}
	}
	return raw, nil
}

func (s *Source) header() http.Header {
	header := http.Header{}
	if s.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+s.cfg.Token)
	}
	return header
}

func markdownFiles(entries []ContentEntry) []ContentEntry {
	var files []ContentEntry
	for _, e := range entries {
		if e.Type != "" && e.Type != "file" {
			continue
		}
		if !strings.HasSuffix(e.Name, ".md") || e.DownloadURL == "" {
			continue
		}
		files = append(files, e)
	}
	return files
}
