package ner

import (
	"context"
	"regexp"
	"sort"
)

const (
	// Capitalized words and initials: "F. Scott Fitzgerald", "J.K. Rowling".
	personName = `(?:[A-Z]\.)+(?:[A-Z][a-z][a-zA-Z'-]*)?|[A-Z][a-zA-Z'-]*`
	honorific  = `(?:Dr|Mrs?|Ms|Prof|Rev|St|Fr)\.\s+`
	personSeq  = `((?:` + honorific + `)?(?:` + personName + `)(?:\s+(?:` + personName + `))*)`

	orgWord = `[A-Z][a-zA-Z'-]*`
	orgSeq  = `(` + orgWord + `(?:\s+(?:&\s+)?` + orgWord + `)*)`

	titleSeq = `([A-Z][a-zA-Z'-]*(?:\s+[A-Z][a-zA-Z'-]*)*)`
)

type cue struct {
	re       *regexp.Regexp
	category Category
}

// PatternRecognizer is an offline recognizer driven by lexical cues such as
// "written by" or a trailing "Press". It trades recall for having no model
// to load.
type PatternRecognizer struct {
	cues []cue
}

func NewPatternRecognizer() *PatternRecognizer {
	return &PatternRecognizer{
		cues: []cue{
			{regexp.MustCompile(`\b(?:written|authored|penned) by\s+` + personSeq), Person},
			{regexp.MustCompile(`\b(?i:the author|novelist|writer)\s+` + personSeq), Person},
			{regexp.MustCompile(`\bpublished by\s+` + orgSeq), Organization},
			{regexp.MustCompile(`\b((?:[A-Z][a-zA-Z&'-]*\s+)+(?:Press|Publishing|Publishers|Books|House))\b`), Organization},
			{regexp.MustCompile(`\b(?i:the (?:novel|book|series))\s+` + titleSeq), CreativeWork},
		},
	}
}

type located struct {
	Span
	start int
}

// Recognize returns spans in the order they appear in text.
func (r *PatternRecognizer) Recognize(ctx context.Context, text string) ([]Span, error) {
	var found []located
	seen := make(map[string]struct{})

	for _, c := range r.cues {
		for _, m := range c.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[2], m[3]
			if start < 0 {
				continue
			}
			span := Span{Text: text[start:end], Category: c.category}
			key := string(c.category) + "\x00" + span.Text
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			found = append(found, located{Span: span, start: start})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].start < found[j].start
	})

	spans := make([]Span, len(found))
	for i, f := range found {
		spans[i] = f.Span
	}
	return spans, nil
}
