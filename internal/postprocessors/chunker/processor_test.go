package chunker

import (
	"strings"
	"testing"
)

// runeTokenizer treats every rune as one token so boundaries are easy to reason about.
type runeTokenizer struct{}

func (runeTokenizer) Encode(text string) []int {
	runes := []rune(text)
	out := make([]int, len(runes))
	for i, r := range runes {
		out[i] = int(r)
	}
	return out
}

func (runeTokenizer) Decode(tokens []int) string {
	runes := make([]rune, len(tokens))
	for i, t := range tokens {
		runes[i] = rune(t)
	}
	return string(runes)
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New(runeTokenizer{})
		if p.maxTokens != DefaultMaxTokens {
			t.Errorf("expected maxTokens %d, got %d", DefaultMaxTokens, p.maxTokens)
		}
		if p.MaxTokens() != 300 {
			t.Errorf("expected default of 300, got %d", p.MaxTokens())
		}
	})

	t.Run("custom max tokens", func(t *testing.T) {
		p := New(runeTokenizer{}, WithMaxTokens(50))
		if p.maxTokens != 50 {
			t.Errorf("expected maxTokens 50, got %d", p.maxTokens)
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(runeTokenizer{}, WithMaxTokens(0), WithMaxTokens(-3))
		if p.maxTokens != DefaultMaxTokens {
			t.Errorf("expected default maxTokens, got %d", p.maxTokens)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p := New(runeTokenizer{})
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got %q", p.Name())
	}
}

func TestProcessor_Chunk(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		p := New(runeTokenizer{}, WithMaxTokens(10))
		if chunks := p.Chunk(""); len(chunks) != 0 {
			t.Errorf("expected 0 chunks, got %d", len(chunks))
		}
	})

	t.Run("input below limit is one chunk", func(t *testing.T) {
		p := New(runeTokenizer{}, WithMaxTokens(100))
		text := "The sky is blue. Grass is green."
		chunks := p.Chunk(text)
		if len(chunks) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(chunks))
		}
		if chunks[0] != text {
			t.Errorf("expected chunk to equal input, got %q", chunks[0])
		}
	})

	t.Run("input exactly at limit is one chunk", func(t *testing.T) {
		p := New(runeTokenizer{}, WithMaxTokens(5))
		if chunks := p.Chunk("abcde"); len(chunks) != 1 {
			t.Errorf("expected 1 chunk, got %d", len(chunks))
		}
	})

	t.Run("non-overlapping boundaries", func(t *testing.T) {
		p := New(runeTokenizer{}, WithMaxTokens(4))
		chunks := p.Chunk("abcdefghij")
		want := []string{"abcd", "efgh", "ij"}
		if len(chunks) != len(want) {
			t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
		}
		for i := range want {
			if chunks[i] != want[i] {
				t.Errorf("chunk %d: expected %q, got %q", i, want[i], chunks[i])
			}
		}
	})

	t.Run("multibyte runes", func(t *testing.T) {
		p := New(runeTokenizer{}, WithMaxTokens(2))
		chunks := p.Chunk("héllo")
		if strings.Join(chunks, "") != "héllo" {
			t.Errorf("chunks do not reassemble input: %q", chunks)
		}
	})
}

func TestProcessor_ChunkCountAndLossless(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 40)
	tokens := len([]rune(text))

	for _, max := range []int{1, 3, 7, 50, 300, 1079, 1080, 5000} {
		p := New(runeTokenizer{}, WithMaxTokens(max))
		chunks := p.Chunk(text)

		want := (tokens + max - 1) / max
		if len(chunks) != want {
			t.Errorf("max %d: expected %d chunks, got %d", max, want, len(chunks))
		}
		if strings.Join(chunks, "") != text {
			t.Errorf("max %d: concatenated chunks differ from input", max)
		}
		for i, c := range chunks {
			if n := len([]rune(c)); n > max {
				t.Errorf("max %d: chunk %d has %d tokens", max, i, n)
			}
		}
	}
}

func TestProcessor_Split(t *testing.T) {
	p := New(runeTokenizer{}, WithMaxTokens(3))
	chunks := p.Split("abcdefg")

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
	}
	if chunks[2].Text != "g" {
		t.Errorf("expected last chunk 'g', got %q", chunks[2].Text)
	}
}
