package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"rendering-engine/renderer"
)

// LoadOptions reads a render options file over base. The file holds the
// option keys at top level, in YAML or TOML.
func LoadOptions(path string, base renderer.Options) (renderer.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("options: %w", err)
	}
	opts := base
	if err := decode(path, data, &opts); err != nil {
		return base, err
	}
	return opts, nil
}

// OptionsWatcher reloads an options file whenever it changes and publishes
// the result. Only the latest snapshot is kept; the render loop picks it up
// between frames.
type OptionsWatcher struct {
	path    string
	log     *slog.Logger
	fs      *fsnotify.Watcher
	updates chan renderer.Options
	done    chan struct{}
}

// WatchOptions starts watching path. Edits are applied over base, then over
// each previously loaded snapshot.
func WatchOptions(path string, base renderer.Options, log *slog.Logger) (*OptionsWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch options: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch options: %w", err)
	}
	// Editors often replace the file, so the directory is watched.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch options: %w", err)
	}
	w := &OptionsWatcher{
		path:    abs,
		log:     log,
		fs:      fw,
		updates: make(chan renderer.Options, 1),
		done:    make(chan struct{}),
	}
	go w.run(base)
	return w, nil
}

// Updates delivers reloaded options.
func (w *OptionsWatcher) Updates() <-chan renderer.Options { return w.updates }

func (w *OptionsWatcher) run(current renderer.Options) {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			opts, err := LoadOptions(w.path, current)
			if err != nil {
				w.log.Warn("options reload failed", "path", w.path, "err", err)
				continue
			}
			current = opts
			w.publish(opts)
			w.log.Info("options reloaded", "path", w.path)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("options watcher", "err", err)
		}
	}
}

// publish replaces any snapshot the render loop has not consumed yet.
func (w *OptionsWatcher) publish(opts renderer.Options) {
	select {
	case <-w.updates:
	default:
	}
	w.updates <- opts
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *OptionsWatcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}
