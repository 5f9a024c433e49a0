package kb

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"kindred/internal/logging"
)

// SeedEvent reports a seed re-application triggered by a file change.
type SeedEvent struct {
	Report SeedReport
	Err    error
}

// WatchSeed re-applies the seed file whenever it changes on disk.
// Facts are monotonic, so re-application is a pure top-up: already
// known facts are idempotent no-ops and new entries flow through the
// checker like any assert. The watcher stops when stop is called.
func (k *KnowledgeBase) WatchSeed(path string) (<-chan SeedEvent, func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	// Watch the directory: editors typically replace the file, which
	// drops a watch registered on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, nil, err
	}

	events := make(chan SeedEvent, 1)
	done := make(chan struct{})

	go func() {
		defer close(events)
		for {
			select {
			case <-done:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				logging.Boot("seed file changed: %s", ev.Name)
				report, err := k.LoadSeed(path)
				select {
				case events <- SeedEvent{Report: report, Err: err}:
				case <-done:
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				select {
				case events <- SeedEvent{Err: err}:
				case <-done:
					return
				}
			}
		}
	}()

	stop := func() {
		close(done)
		watcher.Close()
	}
	return events, stop, nil
}
