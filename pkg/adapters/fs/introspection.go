package fs

import (
	"slices"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle/pkg/core/worker"
)

// SourceState exposes internal state for observability.
type SourceState struct {
	ID            string        `json:"id"`
	Path          string        `json:"path"`
	Pattern       string        `json:"pattern"`
	Query         string        `json:"query"`
	CacheSize     int           `json:"cache_size"`
	Decoders      []string      `json:"decoders"`
	WatcherActive bool          `json:"watcher_active"`
	Worker        *worker.State `json:"worker,omitempty"`
	LastReload    *time.Time    `json:"last_reload,omitempty"`
	Snapshots     int           `json:"snapshots"`
}

// State implements introspection.Introspectable.
func (s *Source) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	decoders := make([]string, 0, len(s.decoders))
	for ext := range s.decoders {
		decoders = append(decoders, ext)
	}
	slices.Sort(decoders)

	var ws *worker.State
	if s.worker != nil {
		state := s.worker.State()
		ws = &state
	}

	return SourceState{
		ID:            s.id,
		Path:          s.path,
		Pattern:       s.config.Pattern,
		Query:         s.query.CanonicalID(),
		CacheSize:     s.cache.Len(),
		Decoders:      decoders,
		WatcherActive: s.watcherActive,
		Worker:        ws,
		LastReload:    s.lastReload,
		Snapshots:     s.snapshots,
	}
}

// ComponentType implements introspection.Component.
func (s *Source) ComponentType() string {
	return "source"
}

var _ introspection.Introspectable = (*Source)(nil)
var _ introspection.Component = (*Source)(nil)
var _ worker.Worker = (*watchWorker)(nil)

func (s *Source) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

func (s *Source) recordSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots++
}
