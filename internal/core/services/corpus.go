package services

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// IndexedCorpus is the searchable form of one document: the vector index and
// the chunk texts it was built from. It is immutable once created, so the two
// can never drift out of alignment.
type IndexedCorpus struct {
	filename string
	text     string
	chunks   []string
	index    driven.VectorIndex
	loadedAt time.Time
}

// NewIndexedCorpus pairs an already built index with its chunk texts.
func NewIndexedCorpus(filename, text string, chunks []string, index driven.VectorIndex) (*IndexedCorpus, error) {
	if index == nil {
		return nil, fmt.Errorf("indexed corpus: nil index: %w", domain.ErrInvalidInput)
	}
	if index.Len() != len(chunks) {
		return nil, fmt.Errorf("indexed corpus: index has %d vectors for %d chunks: %w",
			index.Len(), len(chunks), domain.ErrDimensionMismatch)
	}
	return &IndexedCorpus{
		filename: filename,
		text:     text,
		chunks:   append([]string(nil), chunks...),
		index:    index,
		loadedAt: time.Now(),
	}, nil
}

// Len returns the number of chunks.
func (c *IndexedCorpus) Len() int {
	return len(c.chunks)
}

// Search returns the texts of the k chunks nearest to query, closest first.
func (c *IndexedCorpus) Search(query []float32, k int) ([]string, error) {
	hits, err := c.index.Search(query, k)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(hits))
	for _, h := range hits {
		if h.Index < 0 || h.Index >= len(c.chunks) {
			return nil, fmt.Errorf("index returned row %d for %d chunks", h.Index, len(c.chunks))
		}
		texts = append(texts, c.chunks[h.Index])
	}
	return texts, nil
}

// CorpusState owns the loaded document and the active session.
// Uploads take the write lock for the whole reset and rebuild; queries take
// the read lock while they search and look up chunk texts. Status reads a
// snapshot published on every change and never waits for the lock.
type CorpusState struct {
	mu        sync.RWMutex
	corpus    *IndexedCorpus
	sessionID string

	status atomic.Pointer[domain.DocumentStatus]
}

// NewCorpusState returns an empty state.
func NewCorpusState() *CorpusState {
	s := &CorpusState{}
	s.status.Store(&domain.DocumentStatus{})
	return s
}

// publish stores the status of the current corpus. Callers hold the write lock.
func (s *CorpusState) publish() {
	if s.corpus == nil {
		s.status.Store(&domain.DocumentStatus{})
		return
	}
	s.status.Store(&domain.DocumentStatus{
		Loaded:    true,
		Filename:  s.corpus.filename,
		Chunks:    s.corpus.Len(),
		Chars:     utf8.RuneCountInString(s.corpus.text),
		SessionID: s.sessionID,
		LoadedAt:  s.corpus.loadedAt,
	})
}

// Replace clears the state, then runs build under the write lock and
// publishes its result. On error the state stays cleared.
func (s *CorpusState) Replace(build func() (*IndexedCorpus, string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.corpus = nil
	s.sessionID = ""
	s.status.Store(&domain.DocumentStatus{Indexing: true})

	corpus, sessionID, err := build()
	if err == nil {
		s.corpus = corpus
		s.sessionID = sessionID
	}
	s.publish()
	return err
}

// Reset clears the document and the active session.
func (s *CorpusState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpus = nil
	s.sessionID = ""
	s.publish()
}

// View runs fn with the current corpus under the read lock.
// It returns domain.ErrNoDocumentLoaded when nothing is loaded.
func (s *CorpusState) View(fn func(c *IndexedCorpus, sessionID string) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.corpus == nil {
		return domain.ErrNoDocumentLoaded
	}
	return fn(s.corpus, s.sessionID)
}

// Loaded reports whether a document is indexed.
func (s *CorpusState) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.corpus != nil
}

// ActiveSession returns the session of the loaded document, or "".
func (s *CorpusState) ActiveSession() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// Status describes the loaded document, or reports Indexing while an upload
// is being built.
func (s *CorpusState) Status() domain.DocumentStatus {
	if st := s.status.Load(); st != nil {
		return *st
	}
	return domain.DocumentStatus{}
}

// Text returns the extracted text of the loaded document.
func (s *CorpusState) Text() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.corpus == nil {
		return "", domain.ErrNoDocumentLoaded
	}
	return s.corpus.text, nil
}
