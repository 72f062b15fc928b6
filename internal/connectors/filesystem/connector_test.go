package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnector_Load(t *testing.T) {
	t.Run("reads file and content type", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

		upload, err := New(path).Load(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "notes.txt", upload.Filename)
		assert.Equal(t, "text/plain; charset=utf-8", upload.ContentType)
		assert.Equal(t, []byte("hello"), upload.Data)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "absent.pdf")).Load(context.Background())
		assert.Error(t, err)
	})
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name string
		path string
		data []byte
		want string
	}{
		{"pdf extension", "doc.PDF", nil, "application/pdf"},
		{"markdown", "README.md", []byte("# hi"), "text/markdown; charset=utf-8"},
		{"html", "page.HTM", nil, "text/html; charset=utf-8"},
		{"docx", "letter.docx", nil, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"sniffed pdf", "upload", []byte("%PDF-1.4\n"), "application/pdf"},
		{"sniffed text", "upload", []byte("just words"), "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectContentType(tt.path, tt.data))
		})
	}
}

func TestHandleFsEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	c := New(path)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create after rename", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"write with chmod", fsnotify.Event{Name: path, Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"chmod only", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "other.txt"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.handleFsEvent(tt.event))
		})
	}
}

func TestConnector_Watch(t *testing.T) {
	t.Run("emits reloaded content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.txt")
		require.NoError(t, os.WriteFile(path, []byte("first"), 0644))

		c := New(path)
		c.debounce = 10 * time.Millisecond
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		uploads, err := c.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			_ = os.WriteFile(path, []byte("second"), 0644)
		}()

		select {
		case upload := <-uploads:
			assert.Equal(t, "second", string(upload.Data))
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for file change")
		}
	})

	t.Run("closes channel on cancel", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

		ctx, cancel := context.WithCancel(context.Background())
		uploads, err := New(path).Watch(ctx)
		require.NoError(t, err)

		cancel()
		select {
		case _, ok := <-uploads:
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("channel not closed")
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "nope", "doc.txt")).Watch(context.Background())
		assert.Error(t, err)
	})

	t.Run("close without watch", func(t *testing.T) {
		assert.NoError(t, New("x").Close())
	})
}
