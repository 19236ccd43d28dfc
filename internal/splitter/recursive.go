package splitter

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"
)

// Tried in order; the empty separator splits between characters.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

func newRecursive(size, overlap int) textsplitter.RecursiveCharacter {
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
		textsplitter.WithSeparators(defaultSeparators),
	)
}

// splitParagraph breaks one trimmed paragraph into chunks of at most
// ChunkSize characters. Blank chunks are dropped.
func (s *Splitter) splitParagraph(para string) []string {
	if para == "" {
		return nil
	}
	pieces, err := s.recursive.SplitText(para)
	if err != nil {
		s.logger.Warn("failed to split paragraph", zap.Int("characters", len(para)), zap.Error(err))
		return []string{para}
	}

	chunks := pieces[:0]
	for _, p := range pieces {
		if p = strings.TrimSpace(p); p != "" {
			chunks = append(chunks, p)
		}
	}
	return chunks
}
