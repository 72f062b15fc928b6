package services

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// IndexFactory creates an empty vector index.
type IndexFactory func() driven.VectorIndex

// DocumentService ingests documents: extract, chunk, embed, index, and mint
// a fresh session for the new document.
type DocumentService struct {
	state         *CorpusState
	chunker       driven.Chunker
	embedder      *EmbeddingGateway
	newIndex      IndexFactory
	conversations *ConversationStore
	extractors    map[string]driven.TextExtractor
	newSessionID  func() string
}

// NewDocumentService creates a document service.
func NewDocumentService(
	state *CorpusState,
	chunker driven.Chunker,
	embedder *EmbeddingGateway,
	newIndex IndexFactory,
	conversations *ConversationStore,
	extractors ...driven.TextExtractor,
) *DocumentService {
	s := &DocumentService{
		state:         state,
		chunker:       chunker,
		embedder:      embedder,
		newIndex:      newIndex,
		conversations: conversations,
		extractors:    make(map[string]driven.TextExtractor),
		newSessionID:  uuid.NewString,
	}
	for _, e := range extractors {
		for _, mt := range e.SupportedMIMETypes() {
			s.extractors[mt] = e
		}
	}
	return s
}

// SupportedMIMETypes returns the content types an upload may have.
func (s *DocumentService) SupportedMIMETypes() []string {
	types := make([]string, 0, len(s.extractors))
	for mt := range s.extractors {
		types = append(types, mt)
	}
	return types
}

// Upload replaces the loaded document. The previous document and its active
// session are dropped before the new one is built, so a failed upload leaves
// nothing loaded. Old session histories stay readable until they expire.
func (s *DocumentService) Upload(ctx context.Context, upload domain.Upload) (*domain.UploadResult, error) {
	logger.Section("Document Upload")

	extractor, err := s.extractorFor(upload.ContentType)
	if err != nil {
		return nil, err
	}

	var result *domain.UploadResult
	err = s.state.Replace(func() (*IndexedCorpus, string, error) {
		logger.Debug("Extracting text from %q (%s, %d bytes)", upload.Filename, upload.ContentType, len(upload.Data))
		text, err := extractor.Extract(ctx, upload.Data)
		if err != nil {
			return nil, "", fmt.Errorf("extract %s: %w", upload.Filename, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, "", domain.ErrNoExtractableText
		}

		corpus, err := s.index(ctx, upload.Filename, text)
		if err != nil {
			return nil, "", err
		}

		sessionID := s.newSessionID()
		s.conversations.GetOrInit(sessionID)

		result = &domain.UploadResult{
			Filename:      upload.Filename,
			ExtractedText: text,
			SessionID:     sessionID,
			Chunks:        corpus.Len(),
			Status:        domain.UploadStatusSuccess,
		}
		return corpus, sessionID, nil
	})
	if err != nil {
		logger.Warn("Upload of %q failed: %v", upload.Filename, err)
		return nil, fmt.Errorf("upload: %w", err)
	}

	logger.Info("Indexed %q: %d chunks, session %s", result.Filename, result.Chunks, result.SessionID)
	return result, nil
}

// index chunks and embeds text and builds the searchable corpus.
func (s *DocumentService) index(ctx context.Context, filename, text string) (*IndexedCorpus, error) {
	chunks := s.chunker.Chunk(text)
	logger.Debug("Split into %d chunks of at most %d tokens", len(chunks), s.chunker.MaxTokens())
	if len(chunks) == 0 {
		return nil, domain.ErrNoExtractableText
	}

	vectors, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, err
	}

	index := s.newIndex()
	if err := index.Build(vectors); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	return NewIndexedCorpus(filename, text, chunks, index)
}

func (s *DocumentService) extractorFor(contentType string) (driven.TextExtractor, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("content type %q: %w", contentType, domain.ErrUnsupportedType)
	}
	extractor, ok := s.extractors[strings.ToLower(mediaType)]
	if !ok {
		return nil, fmt.Errorf("content type %q: %w", mediaType, domain.ErrUnsupportedType)
	}
	return extractor, nil
}

// Reset clears the document, its index and the active session.
func (s *DocumentService) Reset(_ context.Context) {
	s.state.Reset()
	logger.Info("Document state reset")
}

// Status describes the loaded document.
func (s *DocumentService) Status() domain.DocumentStatus {
	return s.state.Status()
}

// Text returns the extracted text of the loaded document.
func (s *DocumentService) Text() (string, error) {
	return s.state.Text()
}
