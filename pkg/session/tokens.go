package session

import (
	"log/slog"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// tokenCounter counts transcript tokens with a tiktoken encoding,
// falling back to a rune-based estimate when the encoding cannot be
// loaded (tiktoken fetches encoding data on first use).
type tokenCounter struct {
	encoding *tiktoken.Tiktoken
}

func newTokenCounter(encodingName string) *tokenCounter {
	if encodingName == "" {
		encodingName = "cl100k_base"
	}
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		slog.Warn("token encoding unavailable, using estimate", "encoding", encodingName, "error", err)
		return &tokenCounter{}
	}
	return &tokenCounter{encoding: encoding}
}

func (c *tokenCounter) Count(text string) int {
	if c.encoding == nil {
		// Rough average of four characters per token.
		return utf8.RuneCountInString(text) / 4
	}
	return len(c.encoding.Encode(text, nil, nil))
}
