package jsonfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"resource_hub/internal/domain"
	"resource_hub/internal/source/httpx"
)

const (
	SourceID   = "json"
	SourceName = "Aggregated JSON"
)

type Config struct {
	// Locations maps a collection to a URL or a local file path.
	Locations map[domain.Collection]string
}

// Source reads a collection from one aggregated JSON document.
type Source struct {
	client    *httpx.Client
	locations map[domain.Collection]string
	logger    *slog.Logger
}

func New(cfg Config, client *httpx.Client, logger *slog.Logger) *Source {
	return &Source{
		client:    client,
		locations: cfg.Locations,
		logger:    logger.With("source", SourceID),
	}
}

func (s *Source) ID() string {
	return SourceID
}

func (s *Source) Name() string {
	return SourceName
}

// Fetch reads the document for collection and returns its entries as raw records.
func (s *Source) Fetch(ctx context.Context, collection domain.Collection) (*domain.FetchResult, error) {
	location, ok := s.locations[collection]
	if !ok || location == "" {
		return nil, fmt.Errorf("no location configured for %s", collection)
	}

	data, err := s.read(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}

	var feed Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("decode %s: %w", location, err)
	}

	var elements []json.RawMessage
	if raw, ok := feed[string(collection)]; ok {
		if err := json.Unmarshal(raw, &elements); err != nil {
			return nil, fmt.Errorf("decode %s entries: %w", collection, err)
		}
	}

	entries, dropped := s.decodeEntries(collection, elements)
	s.logger.Debug("read feed", "collection", collection, "entries", len(entries), "dropped", dropped)

	return &domain.FetchResult{Records: s.transform(entries), Dropped: dropped}, nil
}

// decodeEntries decodes each array element on its own so one malformed
// entry does not take the rest of the collection with it.
func (s *Source) decodeEntries(collection domain.Collection, elements []json.RawMessage) ([]Entry, int) {
	entries := make([]Entry, 0, len(elements))
	dropped := 0
	for i, raw := range elements {
		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil || entry == nil {
			s.logger.Warn("skipping malformed entry", "collection", collection, "index", i, "error", err)
			dropped++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, dropped
}

func (s *Source) read(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return s.client.Get(ctx, location, nil)
	}

	data, err := os.ReadFile(location)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v", httpx.ErrNotFound, err)
	}
	return data, err
}

func (s *Source) transform(entries []Entry) []domain.RawRecord {
	records := make([]domain.RawRecord, 0, len(entries))

	for _, entry := range entries {
		fields := make(map[string]any, len(entry))
		for key, raw := range entry {
			if value, ok := scalar(raw); ok {
				fields[key] = value
			}
		}

		id, _ := fields["id"].(string)
		records = append(records, domain.RawRecord{
			ID:     id,
			Fields: fields,
		})
	}

	return records
}

// scalar converts a JSON value into a string or bool. Numbers keep their
// literal text; objects, arrays and nulls are skipped.
func scalar(raw json.RawMessage) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}

	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return t, true
	case json.Number:
		return t.String(), true
	}
	return nil, false
}
