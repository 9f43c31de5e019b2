package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/docview/pkg/core"
	"github.com/aretw0/docview/pkg/view"
)

// Watch reloads the directory whenever matching files change and streams
// the snapshots raised by a query listener. The first snapshot carries the
// initial result. The channel is closed when ctx is done or the watcher
// fails.
func (s *Source) Watch(ctx context.Context) (<-chan *view.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(chan *view.Snapshot, 1)
	w := newWatchWorker(s, out)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.worker = w
	s.mu.Unlock()
	return out, nil
}

type watchWorker struct {
	*worker.BaseWorker
	src       *Source
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	reload    chan struct{}
	view      *view.View
	out       chan<- *view.Snapshot
	cancel    context.CancelFunc
}

func newWatchWorker(src *Source, out chan<- *view.Snapshot) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		src:        src,
		debouncer:  newDebouncer(src.config.Debounce),
		reload:     make(chan struct{}, 1),
		view:       view.New(src.query),
		out:        out,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.src.path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.src.path, err)
	}

	w.watcher = watcher
	w.src.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"source":            w.src.id,
		}
	})
}

// run is the main event loop for the watcher worker.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer close(w.out)
	defer func() {
		if err != nil {
			w.handleWatcherError(fmt.Errorf("watcher failed: %w", err))
		}
	}()
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)

			logger := w.src.config.Logger
			if logger == nil {
				return
			}
			// Stack traces only at debug level.
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "source", w.src.id, "error", err, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "source", w.src.id, "error", err)
			}
		}
	}()
	defer w.src.setWatcherActive(false)
	defer w.watcher.Close()

	listener := view.NewQueryListener(
		view.ListenOptions{IncludeMetadataChanges: w.src.config.IncludeMetadataChanges},
		func(snap *view.Snapshot) { w.deliver(ctx, snap) },
	)

	w.refresh(ctx, listener)
	err = w.mainEventLoop(ctx, listener)

	// No timer may fire after the loop is gone.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) mainEventLoop(ctx context.Context, listener *view.QueryListener) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(event)

		case <-w.reload:
			w.refresh(ctx, listener)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}

// processFilesystemEvent schedules a reload for events on matching files.
func (w *watchWorker) processFilesystemEvent(event fsnotify.Event) bool {
	if w.src.config.Logger != nil {
		w.src.config.Logger.Debug("event received", "source", w.src.id, "name", event.Name, "op", event.Op.String())
	}
	if w.shouldIgnore(event) {
		return false
	}

	w.debouncer.trigger(func() {
		select {
		case w.reload <- struct{}{}:
		default:
		}
	})
	return true
}

func (w *watchWorker) shouldIgnore(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return true
	}
	if filepath.Dir(event.Name) != w.src.path {
		return true
	}
	return !w.src.matches(filepath.Base(event.Name))
}

// refresh reloads the directory and offers the resulting snapshot to the listener.
func (w *watchWorker) refresh(ctx context.Context, listener *view.QueryListener) {
	docs, err := w.src.Load(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.handleWatcherError(err)
		}
		return
	}
	snap := w.view.Update(docs, core.KeySet{}, true)
	if snap != nil && w.src.config.Logger != nil {
		w.src.config.Logger.Debug("view updated", "source", w.src.id, "changes", len(snap.Changes()))
	}
	listener.OnViewSnapshot(snap)
}

func (w *watchWorker) deliver(ctx context.Context, snap *view.Snapshot) {
	select {
	case w.out <- snap:
		w.src.recordSnapshot()
	case <-ctx.Done():
	}
}

// handleWatcherError reports errors from the fsnotify watcher or a reload.
func (w *watchWorker) handleWatcherError(err error) {
	if w.src.config.Logger != nil {
		w.src.config.Logger.Error("watcher error", "source", w.src.id, "error", err)
	}
	if w.src.config.ErrorHandler != nil {
		w.src.config.ErrorHandler(err)
	}
}
