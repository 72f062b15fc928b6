package httpapi

import "github.com/custodia-labs/docchat/internal/core/ports/driving"

// Ports holds the driving ports used by the HTTP API.
type Ports struct {
	Documents driving.DocumentService
	Chat      driving.ChatService
}
