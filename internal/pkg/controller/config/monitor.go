package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/lumipad/lumipad/internal/pkg/logger"
)

// DetectMappingChanges watches the mapping file for external edits. The
// watch is placed on the containing directory because editors and the atomic
// Save replace the file instead of writing it in place.
func DetectMappingChanges(ctx context.Context, path string) <-chan bool {
	var change = make(chan bool)

	go func() {
		defer close(change)
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return
		}

		go func() {
			<-ctx.Done()
			err := watcher.Close()
			if err != nil {
				log.Info(fmt.Sprintf("closing watcher failed: %v", err), logger.Warning)
			}
		}()

		err = watcher.Add(filepath.Dir(path))
		if err != nil {
			log.Info(fmt.Sprintf("watching %s failed: %v", filepath.Dir(path), err), logger.Warning)
			return
		}

		target := filepath.Base(path)
		for event := range watcher.Events {
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Base(event.Name) != target {
				continue
			}

			log.Info(fmt.Sprintf("mapping change detected: %s", event.Name), logger.Info)
			change <- true
		}
	}()

	return change
}
