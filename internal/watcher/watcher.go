/*
 * Watcher - configuration file change notifications.
 *
 * Copyright 2026 the cloudflare-dns-sync authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// defaultDebounce suppresses the event bursts editors produce for a single
// save.
const defaultDebounce = time.Second

// Watcher invokes a callback when the configuration file changes. Editors
// often replace a file instead of writing it in place, so the parent
// directory is watched and events are matched against the file name.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func()
}

// New returns a Watcher for the given file. onChange runs on the watch
// goroutine after each accepted change.
func New(path string, onChange func()) *Watcher {
	return &Watcher{
		path:     path,
		debounce: defaultDebounce,
		onChange: onChange,
	}
}

// Watch blocks dispatching change notifications until ctx is canceled.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %q: %w", dir, err)
	}
	log.WithFields(log.Fields{
		"configFile": w.path,
	}).Info("Watching config file for changes")

	return w.run(ctx, fsw.Events, fsw.Errors)
}

// run dispatches events until ctx is canceled or the channels close.
func (w *Watcher) run(ctx context.Context, events <-chan fsnotify.Event, errors <-chan error) error {
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if time.Since(last) < w.debounce {
				continue
			}
			last = time.Now()
			log.WithFields(log.Fields{
				"configFile": w.path,
				"op":         event.Op.String(),
			}).Info("Config file changed, triggering sync")
			w.onChange()
		case err, ok := <-errors:
			if !ok {
				return nil
			}
			log.Errorf("Config watcher error: %v", err)
		}
	}
}

// relevant reports whether an event concerns the watched file. Chmod events
// carry no content change and are ignored.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename)
}
