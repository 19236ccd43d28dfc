package ner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternRecognizer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Span
	}{
		{
			name: "dune",
			text: "The book 'Dune' was written by Frank Herbert and published by Chilton. It belongs to the Science Fiction genre.",
			want: []Span{
				{Text: "Frank Herbert", Category: Person},
				{Text: "Chilton", Category: Organization},
			},
		},
		{
			name: "initials",
			text: "The Great Gatsby was written by F. Scott Fitzgerald and published by Scribner in 1925.",
			want: []Span{
				{Text: "F. Scott Fitzgerald", Category: Person},
				{Text: "Scribner", Category: Organization},
			},
		},
		{
			name: "publisher suffix and work cue",
			text: "Oxford University Press reissued the novel Middlemarch, by the author George Eliot.",
			want: []Span{
				{Text: "Oxford University Press", Category: Organization},
				{Text: "Middlemarch", Category: CreativeWork},
				{Text: "George Eliot", Category: Person},
			},
		},
		{
			name: "ampersand publisher",
			text: "It was published by Simon & Schuster last spring.",
			want: []Span{
				{Text: "Simon & Schuster", Category: Organization},
			},
		},
		{
			name: "honorific",
			text: "Green Eggs and Ham was written by Dr. Seuss and published by Random House.",
			want: []Span{
				{Text: "Dr. Seuss", Category: Person},
				{Text: "Random House", Category: Organization},
			},
		},
		{
			name: "dangling ampersand",
			text: "It was published by Simon & in 2001.",
			want: []Span{
				{Text: "Simon", Category: Organization},
			},
		},
		{
			name: "nothing",
			text: "there is nothing of interest in this sentence.",
			want: []Span{},
		},
	}

	r := NewPatternRecognizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Recognize(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPatternRecognizer_SameSpanOnce(t *testing.T) {
	r := NewPatternRecognizer()
	got, err := r.Recognize(context.Background(), "It was published by Penguin Books. Penguin Books also printed the sequel.")
	require.NoError(t, err)
	assert.Equal(t, []Span{{Text: "Penguin Books", Category: Organization}}, got)
}
