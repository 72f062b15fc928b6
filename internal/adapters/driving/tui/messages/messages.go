// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// AnswerReceived carries the result of one chat turn back to the model.
type AnswerReceived struct {
	Prompt string
	Answer *domain.Answer
	Err    error
}

// DocumentLoaded is sent when the document has been (re)loaded.
type DocumentLoaded struct {
	Result *domain.UploadResult
	Err    error
}

// ErrorOccurred is sent when an unexpected error needs displaying.
type ErrorOccurred struct {
	Err error
}
