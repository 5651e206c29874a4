package manifest

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/tweag/assetmap/api"
	"github.com/tweag/assetmap/integrity"
	"github.com/tweag/assetmap/internal/logging"
)

// Watcher watches a manifest file and serves descriptors from the most
// recent good snapshot. Reads are lock-free: a reload swaps an atomic
// pointer. A manifest that no longer decodes or validates keeps the
// previous snapshot in place.
//
// Watcher implements the descriptor source contract. Pair it with a
// resolver that recomputes per call; a write-once resolver would never
// observe the swapped snapshots.
type Watcher struct {
	manifestPath   string
	digestFunction integrity.Algorithm

	snapshot      atomic.Pointer[snapshot]
	notifyWatcher *fsnotify.Watcher
	closeOnce     sync.Once
}

var _ api.Source = (*Watcher)(nil)

// snapshot is one successfully loaded manifest together with the checksum
// of the raw bytes it was parsed from.
type snapshot struct {
	manifest *Manifest
	checksum integrity.Checksum
}

// NewWatcher loads the manifest once and prepares the file watch.
// A manifest that cannot be loaded fails construction; after that, the
// watcher always has a snapshot to serve.
func NewWatcher(manifestPath string, digestFunction integrity.Algorithm) (*Watcher, error) {
	notifyWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		manifestPath:   manifestPath,
		digestFunction: digestFunction,
		notifyWatcher:  notifyWatcher,
	}
	initial, err := w.load()
	if err != nil {
		notifyWatcher.Close()
		return nil, err
	}
	w.snapshot.Store(initial)
	return w, nil
}

// Start starts watching the manifest for changes.
func (w *Watcher) Start(ctx context.Context, wg *sync.WaitGroup) error {
	manifestAbsPath, err := filepath.Abs(w.manifestPath)
	if err != nil {
		return err
	}
	logging.Basicf("Starting manifest watcher for %s (%s)", w.manifestPath, w.snapshot.Load().checksum.ToSRI())

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer w.Stop()
		defer logging.Basicf("Stopped manifest watcher")
		for {
			select {
			case event, ok := <-w.notifyWatcher.Events:
				if !ok {
					return
				}
				if event.Name != manifestAbsPath {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					logging.Debugf("manifest file might have changed")
					w.reloadOnChange()
				}
			case err, ok := <-w.notifyWatcher.Errors:
				if !ok {
					return
				}
				logging.Errorf("manifest watcher encountered error: %v", err)
			case <-ctx.Done():
				return // context cancelled, call stop in defer
			}
		}
	}()

	// Watch the directory instead of the file: editors and build tools
	// often replace the manifest atomically, which drops a watch that was
	// placed on the file itself.
	if err := w.notifyWatcher.Add(filepath.Dir(manifestAbsPath)); err != nil {
		return err
	}
	return nil
}

// Stop stops the watcher. Descriptors keep serving the last snapshot.
func (w *Watcher) Stop() (closeErr error) {
	w.closeOnce.Do(func() {
		closeErr = w.notifyWatcher.Close()
	})
	return closeErr
}

// Manifest returns the current snapshot.
func (w *Watcher) Manifest() *Manifest {
	return w.snapshot.Load().manifest
}

func (w *Watcher) Descriptors(_ context.Context, scope string) ([]api.AssetDescriptor, error) {
	return w.Manifest().Descriptors(scope), nil
}

func (w *Watcher) HasDescriptors(_ context.Context, scope string) (bool, error) {
	return w.Manifest().HasScope(scope), nil
}

func (w *Watcher) load() (*snapshot, error) {
	raw, err := os.ReadFile(w.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	manifest, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return &snapshot{manifest: manifest, checksum: integrity.Sum(w.digestFunction, raw)}, nil
}

func (w *Watcher) reloadOnChange() {
	raw, err := os.ReadFile(w.manifestPath)
	if err != nil {
		logging.Errorf("reloading manifest: %v", err)
		return
	}
	checksum := integrity.Sum(w.digestFunction, raw)
	if w.snapshot.Load().checksum.Equals(checksum) {
		logging.Debugf("manifest contents unchanged, skipping reload")
		return
	}
	manifest, err := Parse(bytes.NewReader(raw))
	if err != nil {
		logging.Warningf("bad manifest - keeping previous snapshot: %v", err)
		return
	}
	w.snapshot.Store(&snapshot{manifest: manifest, checksum: checksum})
	logging.Basicf("manifest reloaded (%s)", checksum.ToSRI())
}
