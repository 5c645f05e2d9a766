package registry

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/ports"
)

// Watcher reloads the registry when its declarative source changes on disk.
// Registries are immutable, so a change always produces a whole new registry;
// a failed reload keeps the previous one in service.
type Watcher struct {
	path string
	log  ports.Logger
}

// NewWatcher builds a watcher for the source file at path.
func NewWatcher(path string, log ports.Logger) *Watcher {
	return &Watcher{path: path, log: log}
}

// Watch emits a freshly loaded registry on each successful reload until ctx
// is done. The channel is unbuffered from the consumer's point of view only
// between utterances: the voice loop drains it before each capture, which
// keeps the pipeline itself single-threaded.
func (w *Watcher) Watch(ctx context.Context) (<-chan domain.Registry, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(w.path); err != nil {
		fw.Close()
		return nil, err
	}

	out := make(chan domain.Registry, 1)
	go func() {
		defer fw.Close()
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				reg, err := LoadFile(w.path)
				if err != nil {
					w.log.Warn("registry reload failed, keeping previous registry", map[string]interface{}{
						"path":  w.path,
						"error": err.Error(),
					})
					continue
				}
				select {
				case out <- reg:
				default:
					// a pending reload is superseded by this one
					select {
					case <-out:
					default:
					}
					out <- reg
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.log.Warn("registry watcher error", map[string]interface{}{"error": err.Error()})
			}
		}
	}()
	return out, nil
}
