// Package tiktoken adapts github.com/pkoukk/tiktoken-go to the Tokenizer port.
// BPE ranks are loaded from files embedded in the binary, so no network
// access is needed at runtime.
package tiktoken

import (
	"fmt"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// DefaultEncoding is used for models tiktoken does not know, including
// non-OpenAI embedding models.
const DefaultEncoding = "cl100k_base"

// Ensure Tokenizer implements the interface.
var _ driven.Tokenizer = (*Tokenizer)(nil)

var loaderOnce sync.Once

// Tokenizer counts and slices text in the token units of an OpenAI model.
type Tokenizer struct {
	enc      *tiktoken.Tiktoken
	encoding string
}

// New returns a tokenizer for model, falling back to DefaultEncoding when the
// model has no registered encoding.
func New(model string) (*Tokenizer, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.EncodingForModel(model)
	if err == nil {
		return &Tokenizer{enc: enc, encoding: model}, nil
	}

	logger.Debug("tiktoken: no encoding for model %q, using %s", model, DefaultEncoding)
	enc, err = tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", DefaultEncoding, err)
	}
	return &Tokenizer{enc: enc, encoding: DefaultEncoding}, nil
}

// Encode returns the token ids of text. Special-token text is encoded as plain text.
func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode returns the text of tokens.
func (t *Tokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// Count returns the number of tokens in text.
func (t *Tokenizer) Count(text string) int {
	return len(t.Encode(text))
}

// Encoding returns the model or encoding name the tokenizer was built for.
func (t *Tokenizer) Encoding() string {
	return t.encoding
}
