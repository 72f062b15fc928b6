package tui

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("tui: chat service is required")

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("tui: document service is required")

// ErrMissingDocumentPath is returned when a loader is given without a path.
var ErrMissingDocumentPath = errors.New("tui: document path is required with a loader")

// ErrNoLoader is returned when a new session is requested without a loader.
var ErrNoLoader = errors.New("tui: no document loader configured")
