package ner

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/bookgraph/internal/config"
	"github.com/agenthands/bookgraph/internal/core/common"
	"github.com/agenthands/bookgraph/internal/llm"
)

type extractedEntities struct {
	Entities []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"entities"`
}

// LLMRecognizer asks a language model to label spans.
type LLMRecognizer struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewLLMRecognizer(client llm.LLMClient, prompt string) *LLMRecognizer {
	if prompt == "" {
		prompt = config.DefaultEntityPrompt
	}
	return &LLMRecognizer{
		LLM:    client,
		Prompt: prompt,
	}
}

func (r *LLMRecognizer) Recognize(ctx context.Context, text string) ([]Span, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	response, err := r.LLM.Generate(ctx, fmt.Sprintf(r.Prompt, text))
	if err != nil {
		return nil, fmt.Errorf("failed to generate entities: %w", err)
	}

	result, err := common.ParseJSON[extractedEntities](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse entities: %w", err)
	}

	var spans []Span
	for _, e := range result.Entities {
		cat, ok := categoryFromLabel(e.Label)
		if !ok || strings.TrimSpace(e.Text) == "" {
			continue
		}
		spans = append(spans, Span{Text: e.Text, Category: cat})
	}
	return spans, nil
}

func categoryFromLabel(label string) (Category, bool) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "PERSON", "PER", "AUTHOR":
		return Person, true
	case "ORG", "ORGANIZATION", "PUBLISHER":
		return Organization, true
	case "WORK_OF_ART", "WORK", "BOOK", "CREATIVE_WORK":
		return CreativeWork, true
	}
	return "", false
}
