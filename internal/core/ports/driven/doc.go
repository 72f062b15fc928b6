// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextExtractor: Turns uploaded bytes into text (PDF, plain text)
//   - Tokenizer / Chunker: Splits text into embedding-model token units
//   - VectorIndex: Exact nearest-neighbour search over chunk vectors
//   - SessionStore: Bounded conversation history storage
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil. Operations needing them fail with domain.ErrUnconfigured:
//
//   - EmbeddingService: Generates vector embeddings for chunks and queries.
//   - Completer: Produces assistant replies.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
