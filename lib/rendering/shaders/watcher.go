package shaders

import (
	"errors"
	"fmt"
	"time"

	"github.com/jhenstridge/go-inotify"
)

// Watcher signals when any of the watched shader files has been written.
// Bursts of writes collapse into a single pending notification.
//
// Editors that save by renaming a new file over the old one drop the
// inotify watch with the old inode; the watch is then re-added on the path
// and that counts as a change too.
type Watcher struct {
	watcher *inotify.Watcher
	changed chan string
	done    chan struct{}
	settle  time.Duration
	retries int
}

func NewWatcher(paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("nothing to watch")
	}
	iw, err := inotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create inotify watcher: %w", err)
	}
	for _, p := range paths {
		if _, err := iw.Watch(p); err != nil {
			_ = iw.Close()
			return nil, fmt.Errorf("could not watch %s: %w", p, err)
		}
	}

	w := &Watcher{
		watcher: iw,
		changed: make(chan string, 1),
		done:    make(chan struct{}),
		settle:  100 * time.Millisecond,
		retries: 10,
	}
	go w.run()
	return w, nil
}

// Changed delivers the path of a file that was rewritten.
func (w *Watcher) Changed() <-chan string {
	return w.changed
}

// eventPath is the watched path an event belongs to. Single-file watches
// carry no name, so the path comes from the watch itself.
func eventPath(ev inotify.Event) string {
	if ev.Watch != nil {
		return ev.Watch.Path
	}
	return ev.Name
}

func (w *Watcher) run() {
	defer close(w.done)
	for ev := range w.watcher.Event {
		path := eventPath(ev)
		switch {
		case ev.Mask&inotify.IN_CLOSE_WRITE != 0:
			logger().Debug(fmt.Sprintf("%s was written", path))
		case ev.Mask&inotify.IN_MOVE_SELF != 0:
			// the inode moved away, stop following it; IN_IGNORED comes next
			if ev.Watch != nil {
				_ = w.watcher.RemoveWatch(ev.Watch)
			}
			continue
		case ev.Mask&inotify.IN_IGNORED != 0:
			if path == "" {
				continue
			}
			logger().Warn(fmt.Sprintf("lost watch on %s, re-adding it", path))
			if !w.rewatch(path) {
				continue
			}
		default:
			continue
		}
		// let the editor finish whatever it is doing
		time.Sleep(w.settle)
		select {
		case w.changed <- path:
		default:
		}
	}
}

// rewatch re-adds path, waiting a little for it to reappear.
func (w *Watcher) rewatch(path string) bool {
	var err error
	for range w.retries {
		if _, err = w.watcher.Watch(path); err == nil {
			return true
		}
		if errors.Is(err, inotify.ErrClosed) {
			return false
		}
		time.Sleep(w.settle)
	}
	logger().Error(fmt.Sprintf("could not watch %s again: %s", path, err))
	return false
}

// Close stops watching and returns any error the inotify reader hit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
