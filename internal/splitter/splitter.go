// Package splitter turns documents into ordered text chunks.
package splitter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"

	"github.com/agenthands/bookgraph/internal/config"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
	recursive    textsplitter.RecursiveCharacter
	logger       *zap.Logger
}

func New(cfg config.SplitterConfig, logger *zap.Logger) *Splitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Splitter{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		recursive:    newRecursive(cfg.ChunkSize, cfg.ChunkOverlap),
		logger:       logger,
	}
}

// Supported reports whether path has an extension Split can read.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt", ".md":
		return true
	}
	return false
}

// Split reads the document at path and returns its chunks in order.
func (s *Splitter) Split(ctx context.Context, path string) ([]string, error) {
	text, err := s.load(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chunks := s.SplitText(text)
	s.logger.Info("split document",
		zap.String("path", path),
		zap.Int("characters", len(text)),
		zap.Int("chunks", len(chunks)),
	)
	return chunks, nil
}

func (s *Splitter) load(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return readPDF(path)
	case ".txt", ".md":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// SplitText splits text into paragraphs on blank lines, then breaks each
// trimmed paragraph into chunks of at most ChunkSize characters.
func (s *Splitter) SplitText(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	chunks := []string{}
	for _, para := range strings.Split(text, "\n\n") {
		chunks = append(chunks, s.splitParagraph(strings.TrimSpace(para))...)
	}
	return chunks
}
