// Package services implements the driving port interfaces.
// Services contain the core retrieval-augmented chat logic and orchestrate
// calls to driven ports (adapters).
//
// The ingestion path is DocumentService: extract, chunk, embed, build an
// IndexedCorpus and publish it through CorpusState. The query path is
// ChatService: RetrieverService finds context, ConversationStore composes
// the prompt and CompletionGateway calls the model.
//
// Services are pure Go with no CGO.
package services
