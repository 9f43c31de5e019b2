// Package fs materializes a directory of YAML/JSON files as a collection.
//
// Each file whose name matches the configured pattern is one document: its
// ID is the file stem, its value the decoded object and its version the
// modification time in nanoseconds. Watch turns filesystem activity into
// view snapshots.
package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/aretw0/docview/pkg/core"
	"github.com/aretw0/docview/pkg/docset"
	"github.com/aretw0/docview/pkg/query"
)

const (
	// DefaultPattern selects the files read as documents.
	DefaultPattern = "*.{yaml,yml,json}"
	// DefaultDebounce is the quiet period before a reload.
	DefaultDebounce = 50 * time.Millisecond
)

// Config holds the configuration for a directory source.
type Config struct {
	Path                   string
	Pattern                string      // doublestar pattern matched against file names
	Query                  query.Query // zero value: the collection named after the directory
	Logger                 *slog.Logger
	ErrorHandler           func(error) // receives decode and watcher errors
	Debounce               time.Duration
	IncludeMetadataChanges bool
}

// Source reads a directory as the result of a query.
type Source struct {
	id       string
	path     string
	config   Config
	query    query.Query
	decoders map[string]Decoder
	cache    *cache

	mu            sync.RWMutex
	watcherActive bool
	worker        *watchWorker // most recent Watch
	lastReload    *time.Time
	snapshots     int
}

// NewSource validates config and returns a source for its directory.
func NewSource(config Config) (*Source, error) {
	abs, err := filepath.Abs(config.Path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", abs)
	}

	if config.Pattern == "" {
		config.Pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(config.Pattern) {
		return nil, fmt.Errorf("invalid pattern %q", config.Pattern)
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}

	q := config.Query
	if q.Path().Len() == 0 {
		q, err = query.Parse(filepath.Base(abs))
		if err != nil {
			return nil, fmt.Errorf("cannot derive collection from %s: %w", abs, err)
		}
	}

	return &Source{
		id:       uuid.NewString(),
		path:     abs,
		config:   config,
		query:    q,
		decoders: DefaultDecoders(),
		cache:    newCache(),
	}, nil
}

// ID identifies this source in logs and state dumps.
func (s *Source) ID() string { return s.id }

// Path is the absolute directory path.
func (s *Source) Path() string { return s.path }

// Query is the query whose results this source produces.
func (s *Source) Query() query.Query { return s.query }

// Load reads every matching file. Files that cannot be decoded are skipped
// and reported to the error handler.
func (s *Source) Load(ctx context.Context) (*docset.DocumentSet, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	docs := docset.New(s.query.Comparator())
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !s.matches(entry.Name()) {
			continue
		}

		doc, err := s.readDocument(entry)
		if err != nil {
			s.reportError(err)
			continue
		}
		seen[entry.Name()] = true
		docs = docs.Add(doc)
	}
	s.cache.Prune(seen)

	now := time.Now()
	s.mu.Lock()
	s.lastReload = &now
	s.mu.Unlock()

	if s.config.Logger != nil {
		s.config.Logger.Debug("source loaded", "source", s.id, "path", s.path, "docs", docs.Len())
	}
	return docs, nil
}

func (s *Source) matches(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	if _, ok := s.decoders[strings.ToLower(filepath.Ext(name))]; !ok {
		return false
	}
	ok, err := doublestar.Match(s.config.Pattern, name)
	return err == nil && ok
}

func (s *Source) readDocument(entry os.DirEntry) (core.Document, error) {
	name := entry.Name()
	info, err := entry.Info()
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if cached, hit := s.cache.Get(name, info.ModTime(), info.Size()); hit {
		return cached.Doc, nil
	}

	key, err := s.resolveKey(name)
	if err != nil {
		return core.Document{}, err
	}

	f, err := os.Open(filepath.Join(s.path, name))
	if err != nil {
		return core.Document{}, err
	}
	defer f.Close()

	data, err := s.decoders[strings.ToLower(filepath.Ext(name))].Decode(f)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	doc := core.NewDocument(key, info.ModTime().UnixNano(), data)
	s.cache.Set(name, &cacheEntry{Doc: doc, Size: info.Size(), LastModified: info.ModTime()})
	return doc, nil
}

// resolveKey maps a file name to its document key.
func (s *Source) resolveKey(name string) (core.Key, error) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	key, err := core.NewKey(s.query.Path().Child(stem))
	if err != nil {
		return core.Key{}, fmt.Errorf("file %s: %w", name, err)
	}
	return key, nil
}

func (s *Source) reportError(err error) {
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	} else if s.config.Logger != nil {
		s.config.Logger.Warn("skipping file", "source", s.id, "error", err)
	}
}
