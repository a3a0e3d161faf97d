package energyplan

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// watchResults reports batch completion progress while the external process
// runs, by counting result files as they appear. Watching is best effort:
// failures to watch never fail the batch, they only silence progress.
func watchResults(ctx context.Context, dir string, total int, progress func(done, total int)) (stop func()) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		seen := make(map[string]struct{}, total)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				name := filepath.Base(event.Name)
				if !strings.HasSuffix(name, ".txt") {
					continue
				}
				if _, dup := seen[name]; dup {
					continue
				}
				seen[name] = struct{}{}
				progress(len(seen), total)
				if len(seen) >= total {
					return
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		_ = watcher.Close()
		<-done
	}
}
