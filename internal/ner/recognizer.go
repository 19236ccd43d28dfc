// Package ner classifies spans of text as people, organizations or creative
// works. The extractor only depends on the Recognizer interface, so the
// classifier behind it can be swapped without touching extraction rules.
package ner

import (
	"context"
	"fmt"

	"github.com/agenthands/bookgraph/internal/config"
	"github.com/agenthands/bookgraph/internal/llm"
)

type Category string

const (
	Person       Category = "PERSON"
	Organization Category = "ORG"
	CreativeWork Category = "WORK_OF_ART"
)

// Span is a piece of text recognized as belonging to a category.
type Span struct {
	Text     string   `json:"text"`
	Category Category `json:"label"`
}

type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Span, error)
}

// Nop recognizes nothing.
type Nop struct{}

func (Nop) Recognize(ctx context.Context, text string) ([]Span, error) {
	return nil, nil
}

// New returns the recognizer selected in cfg. client is only required for
// the "llm" recognizer.
func New(cfg config.NERConfig, client llm.LLMClient) (Recognizer, error) {
	switch cfg.Recognizer {
	case "", "pattern":
		return NewPatternRecognizer(), nil
	case "none":
		return Nop{}, nil
	case "llm":
		if client == nil {
			return nil, fmt.Errorf("llm recognizer requires an llm client")
		}
		return NewLLMRecognizer(client, cfg.Prompt), nil
	default:
		return nil, fmt.Errorf("unknown recognizer %q", cfg.Recognizer)
	}
}
