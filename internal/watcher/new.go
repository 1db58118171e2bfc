package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/docnarrator/internal/logger"
	"github.com/nguyentantai21042004/docnarrator/pkg/semaphore"
)

// settleDelay gives the writer of a freshly created file time to finish.
const settleDelay = 500 * time.Millisecond

// New creates a Watcher on inputDir. sem bounds concurrent handler calls and may be shared
// with other entry points.
func New(inputDir string, handler EventHandler, log logger.Logger, sem *semaphore.Semaphore) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inputDir:    inputDir,
		handler:     handler,
		logger:      log,
		watcher:     watcher,
		sem:         sem,
		settleDelay: settleDelay,
		inflight:    make(map[string]struct{}),
	}, nil
}
