// Package configwatcher reloads the client configuration when the config
// file changes on disk, so a running client can pick up a new API endpoint
// or rate limit without a restart.
package configwatcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"starcomm_training_client/internal/config"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type Reloader func(cfg *config.Config)

// Watch blocks watching configDir/config.yaml until ctx is done. Writes are
// debounced for a second so editors that save in multiple bursts trigger a
// single reload.
func Watch(ctx context.Context, configDir string, log *zap.Logger, reloader Reloader) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absDir, err := filepath.Abs(configDir)
	if err != nil {
		return err
	}
	if err := watcher.Add(absDir); err != nil {
		return err
	}

	var mu sync.Mutex
	timer := time.NewTimer(0)
	<-timer.C

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != "config.yaml" {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				mu.Lock()
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(time.Second)
				mu.Unlock()
			}
		case <-timer.C:
			cfg, err := config.LoadConfig(configDir)
			if err != nil {
				log.Error("failed to reload config", zap.Error(err))
				continue
			}
			log.Info("config reloaded", zap.String("dir", configDir))
			reloader(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("config watcher error", zap.Error(err))
		}
	}
}
