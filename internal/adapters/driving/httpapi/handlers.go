package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

type rootResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

type healthResponse struct {
	Status         string `json:"status"`
	DocumentLoaded bool   `json:"document_loaded"`
	Indexing       bool   `json:"indexing"`
}

type documentResponse struct {
	Loaded    bool       `json:"loaded"`
	Indexing  bool       `json:"indexing"`
	Filename  string     `json:"filename,omitempty"`
	Chunks    int        `json:"chunks"`
	Chars     int        `json:"chars"`
	SessionID string     `json:"session_id,omitempty"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
}

type uploadResponse struct {
	Filename      string `json:"filename"`
	ExtractedText string `json:"extracted_text"`
	Status        string `json:"status"`
	SessionID     string `json:"session_id"`
	Chunks        int    `json:"chunks"`
}

type processRequest struct {
	UserPrompt string `json:"user_prompt"`
	// Prompt is accepted when user_prompt is absent.
	Prompt     string `json:"prompt"`
	SessionID  string `json:"session_id"`
	Model      string `json:"model"`
}

func (r processRequest) prompt() string {
	if r.UserPrompt != "" {
		return r.UserPrompt
	}
	return r.Prompt
}

type processResponse struct {
	AIResponse string        `json:"ai_response"`
	ModelUsed  string        `json:"model_used"`
	Usage      *domain.Usage `json:"usage"`
	SessionID  string        `json:"session_id"`
}

type historyResponse struct {
	SessionID string           `json:"session_id"`
	Messages  []domain.Message `json:"messages"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, rootResponse{
		Title:       "docchat API",
		Description: "Upload a document and ask questions about it.",
		Version:     s.cfg.Version,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	status := s.ports.Documents.Status()
	c.JSON(http.StatusOK, healthResponse{
		Status:         "ok",
		DocumentLoaded: status.Loaded,
		Indexing:       status.Indexing,
	})
}

func (s *Server) handleDocument(c *gin.Context) {
	status := s.ports.Documents.Status()
	resp := documentResponse{
		Loaded:    status.Loaded,
		Indexing:  status.Indexing,
		Filename:  status.Filename,
		Chunks:    status.Chunks,
		Chars:     status.Chars,
		SessionID: status.SessionID,
	}
	if status.Loaded {
		resp.LoadedAt = &status.LoadedAt
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithCode(c, http.StatusRequestEntityTooLarge, CodeFileTooLarge,
				fmt.Sprintf("File exceeds the %d byte upload limit.", s.cfg.MaxUploadBytes))
			return
		}
		abortWithCode(c, http.StatusBadRequest, CodeInvalidRequest, "A file must be sent in the 'file' form field.")
		return
	}

	file, err := header.Open()
	if err != nil {
		abortWithError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := s.ports.Documents.Upload(c.Request.Context(), domain.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, uploadResponse{
		Filename:      result.Filename,
		ExtractedText: result.ExtractedText,
		Status:        result.Status,
		SessionID:     result.SessionID,
		Chunks:        result.Chunks,
	})
}

func (s *Server) handleProcess(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidRequest, "Request body must be JSON with a 'user_prompt' field.")
		return
	}

	answer, err := s.ports.Chat.Ask(c.Request.Context(), domain.AskRequest{
		SessionID: req.SessionID,
		Prompt:    req.prompt(),
		Model:     req.Model,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, processResponse{
		AIResponse: answer.Response,
		ModelUsed:  answer.Model,
		Usage:      answer.Usage,
		SessionID:  answer.SessionID,
	})
}

func (s *Server) handleReset(c *gin.Context) {
	s.ports.Documents.Reset(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

func (s *Server) handleHistory(c *gin.Context) {
	id := c.Param("id")
	history, err := s.ports.Chat.History(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, historyResponse{SessionID: id, Messages: history})
}
