package ner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/bookgraph/internal/config"
)

type MockLLMClient struct {
	Response   string
	Err        error
	LastPrompt string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.LastPrompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func TestLLMRecognizer(t *testing.T) {
	mock := &MockLLMClient{Response: `{
		"entities": [
			{"text": "Frank Herbert", "label": "PERSON"},
			{"text": "Chilton", "label": "ORG"},
			{"text": "Dune Messiah", "label": "WORK_OF_ART"},
			{"text": "1965", "label": "DATE"},
			{"text": "  ", "label": "PERSON"}
		]
	}`}
	r := NewLLMRecognizer(mock, "Find entities in: %s")

	spans, err := r.Recognize(context.Background(), "Dune Messiah by Frank Herbert, Chilton, 1965.")
	require.NoError(t, err)

	assert.Equal(t, "Find entities in: Dune Messiah by Frank Herbert, Chilton, 1965.", mock.LastPrompt)
	assert.Equal(t, []Span{
		{Text: "Frank Herbert", Category: Person},
		{Text: "Chilton", Category: Organization},
		{Text: "Dune Messiah", Category: CreativeWork},
	}, spans)
}

func TestLLMRecognizer_Errors(t *testing.T) {
	r := NewLLMRecognizer(&MockLLMClient{Err: errors.New("timeout")}, "")
	_, err := r.Recognize(context.Background(), "some text")
	assert.ErrorContains(t, err, "failed to generate entities")

	r = NewLLMRecognizer(&MockLLMClient{Response: "no idea"}, "")
	_, err = r.Recognize(context.Background(), "some text")
	assert.ErrorContains(t, err, "failed to parse entities")
}

func TestLLMRecognizer_BlankTextSkipsCall(t *testing.T) {
	mock := &MockLLMClient{Err: errors.New("should not be called")}
	spans, err := NewLLMRecognizer(mock, "").Recognize(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Empty(t, spans)
	assert.Empty(t, mock.LastPrompt)
}

func TestNew(t *testing.T) {
	r, err := New(config.NERConfig{Recognizer: "pattern"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &PatternRecognizer{}, r)

	r, err = New(config.NERConfig{Recognizer: "none"}, nil)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, r)

	_, err = New(config.NERConfig{Recognizer: "llm"}, nil)
	assert.Error(t, err)

	r, err = New(config.NERConfig{Recognizer: "llm", Prompt: "%s"}, &MockLLMClient{})
	require.NoError(t, err)
	assert.IsType(t, &LLMRecognizer{}, r)

	_, err = New(config.NERConfig{Recognizer: "spacy"}, nil)
	assert.Error(t, err)
}
