package config

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/openplan/openplan/pkg/factory"
)

// Watch watches a configuration file and re-applies it when it changes.
// Events are debounced so editors writing in several steps trigger one
// reload. Watch blocks until ctx is cancelled; apply errors are logged and
// watching continues.
func (l *Loader) Watch(ctx context.Context, f *factory.Factory, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	log := l.logger.With().Str("path", path).Logger()
	log.Info().Msg("Watching configuration file")

	// The timer starts stopped; every relevant event rewinds it, and the
	// reload itself runs in this goroutine so overlapping applies cannot
	// race on the factory.
	reloadDelay := 500 * time.Millisecond
	reloadTimer := time.NewTimer(reloadDelay)
	if !reloadTimer.Stop() {
		<-reloadTimer.C
	}
	defer reloadTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debug().Str("op", event.Op.String()).Msg("Configuration file changed")
			if !reloadTimer.Stop() {
				select {
				case <-reloadTimer.C:
				default:
				}
			}
			reloadTimer.Reset(reloadDelay)

		case <-reloadTimer.C:
			if err := l.Apply(f, path); err != nil {
				log.Error().Err(err).Msg("Failed to re-apply configuration")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("Watcher error")
		}
	}
}
