package extraction

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/bookgraph/internal/core/dedupe"
	"github.com/agenthands/bookgraph/internal/core/model"
	"github.com/agenthands/bookgraph/internal/ner"
)

// Extractor turns a text chunk into books, authors, publishers, genres and
// the relations between them. It holds no per-chunk state.
type Extractor struct {
	Recognizer ner.Recognizer
	Rules      []Rule
	logger     *zap.Logger
}

func NewExtractor(recognizer ner.Recognizer, logger *zap.Logger) *Extractor {
	if recognizer == nil {
		recognizer = ner.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		Recognizer: recognizer,
		Rules:      DefaultRules(),
		logger:     logger,
	}
}

// Extract never fails: a chunk without matches yields an empty result, and
// a recognizer error only drops the named-entity pass for this chunk.
func (e *Extractor) Extract(ctx context.Context, chunk string) *model.ExtractionResult {
	result := model.NewExtractionResult()
	if strings.TrimSpace(chunk) == "" {
		return result
	}

	for _, title := range quotedSpans(chunk) {
		result.Entities[model.KindBook] = append(result.Entities[model.KindBook], model.NewBook(title))
	}

	e.addNamedEntities(ctx, chunk, result)

	findings := Findings{Genres: genreKeywords(chunk)}
	for _, g := range findings.Genres {
		result.Entities[model.KindGenre] = append(result.Entities[model.KindGenre], model.NewGenre(g))
	}

	dedupe.Result(result)

	result.Relations = e.inferRelations(chunk, result.Books(), findings)

	e.logger.Debug("extracted chunk",
		zap.Int("books", len(result.Books())),
		zap.Int("authors", len(result.Authors())),
		zap.Int("publishers", len(result.Publishers())),
		zap.Int("genres", len(result.Genres())),
		zap.Int("relations", len(result.Relations)),
	)
	return result
}

func (e *Extractor) addNamedEntities(ctx context.Context, chunk string, result *model.ExtractionResult) {
	spans, err := e.Recognizer.Recognize(ctx, chunk)
	if err != nil {
		e.logger.Warn("named-entity recognition failed, continuing without it", zap.Error(err))
		return
	}

	for _, s := range spans {
		var ent model.Entity
		switch s.Category {
		case ner.Person:
			ent = model.NewAuthor(s.Text)
		case ner.Organization:
			ent = model.NewPublisher(s.Text)
		case ner.CreativeWork:
			ent = model.NewBook(s.Text)
		default:
			continue
		}
		result.Entities[ent.Kind] = append(result.Entities[ent.Kind], ent)
	}
}

// inferRelations applies every rule to every book. Rules match against the
// whole chunk, so their targets are the same for each book; they are
// resolved once and emitted per book in rule order.
func (e *Extractor) inferRelations(chunk string, books []model.Entity, findings Findings) []model.Relation {
	relations := []model.Relation{}
	if len(books) == 0 {
		return relations
	}

	type match struct {
		kind   model.RelationKind
		target string
	}
	var matches []match
	for _, rule := range e.Rules {
		if target, ok := rule.Target(chunk, findings); ok {
			matches = append(matches, match{kind: rule.Kind, target: target})
		}
	}

	for _, book := range books {
		for _, m := range matches {
			relations = append(relations, model.Relation{
				Book:   book.Value,
				Kind:   m.kind,
				Target: m.target,
			})
		}
	}
	return relations
}
