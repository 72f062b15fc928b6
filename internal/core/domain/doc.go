// Package domain defines the core business entities for docchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A token-bounded segment of the loaded document
//   - Message / History: Role-tagged conversation state of one session
//   - Completion / Usage: A provider reply and its token counters
//   - ProviderError: A classified embedding or completion failure
//   - AppSettings: Resolved configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
