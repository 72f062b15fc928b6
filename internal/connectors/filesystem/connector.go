// Package filesystem loads a document from local disk and watches it for changes.
package filesystem

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/logger"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Connector reads a single document file.
type Connector struct {
	path     string
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// New creates a connector for the file at path.
func New(path string) *Connector {
	return &Connector{path: path, debounce: DefaultDebounce}
}

// Path returns the watched file path.
func (c *Connector) Path() string {
	return c.path
}

// Load reads the file and detects its content type.
func (c *Connector) Load(_ context.Context) (domain.Upload, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("read %s: %w", c.path, err)
	}
	return domain.Upload{
		Filename:    filepath.Base(c.path),
		ContentType: DetectContentType(c.path, data),
		Data:        data,
	}, nil
}

// Watch emits a freshly loaded upload each time the file is written or
// replaced. The parent directory is watched so editors that save by renaming
// a temporary file are seen too. The channel closes when ctx is done.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.Upload, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", c.path, err)
	}

	c.mu.Lock()
	c.watcher = watcher
	c.mu.Unlock()

	uploads := make(chan domain.Upload)
	go c.watchLoop(ctx, watcher, uploads)
	return uploads, nil
}

func (c *Connector) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- domain.Upload) {
	defer close(out)
	defer func() { _ = watcher.Close() }()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !c.handleFsEvent(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(c.debounce)
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher error: %v", err)

		case <-fire:
			fire = nil
			upload, err := c.Load(ctx)
			if err != nil {
				logger.Warn("Reload of %s failed: %v", c.path, err)
				continue
			}
			select {
			case out <- upload:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handleFsEvent reports whether event means the watched file has new content.
func (c *Connector) handleFsEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(c.path) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// Close stops watching.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watcher == nil {
		return nil
	}
	err := c.watcher.Close()
	c.watcher = nil
	return err
}

// DetectContentType guesses the MIME type of a file from its extension,
// falling back to sniffing the content.
func DetectContentType(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".txt", ".text":
		return "text/plain; charset=utf-8"
	case ".md", ".markdown":
		return "text/markdown; charset=utf-8"
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return http.DetectContentType(data)
}
