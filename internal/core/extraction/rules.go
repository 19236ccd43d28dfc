package extraction

import (
	"regexp"
	"strings"

	"github.com/agenthands/bookgraph/internal/core/model"
)

const (
	// Capitalized words and initials: "Frank Herbert", "F. Scott Fitzgerald", "J.K. Rowling".
	nameToken = `(?:[A-Z]\.)+(?:[A-Z][a-z][a-zA-Z'-]*)?|[A-Z][a-zA-Z'-]*`
	honorific = `(?:Dr|Mrs?|Ms|Prof|Rev|St|Fr)\.\s+`
	nameSeq   = `(?:` + honorific + `)?(?:` + nameToken + `)(?:\s+(?:` + nameToken + `))*`

	// Capitalized words, an ampersand only between two of them: "Simon & Schuster".
	publisherSeq = `[A-Z][a-zA-Z'-]*(?:\s+(?:&\s+)?[A-Z][a-zA-Z'-]*)*`
)

var genrePattern = regexp.MustCompile(`(?i)\b(Science Fiction|Non[- ]?Fiction|Fiction|Fantasy|Romance|Mystery|Thriller|Biography)\b`)

// Findings are chunk-level facts gathered during entity discovery that rules
// may fall back on.
type Findings struct {
	// Genres holds every genre keyword match in text order, normalized,
	// before deduplication.
	Genres []string
}

// Rule infers one relation kind from the whole chunk. Pattern's first
// submatch is the target. When Pattern does not match, Fallback (if any)
// may still supply a target.
type Rule struct {
	Kind      model.RelationKind
	Pattern   *regexp.Regexp
	Normalize func(string) string
	Fallback  func(Findings) (string, bool)
}

// Target evaluates the rule against text.
func (r Rule) Target(text string, f Findings) (string, bool) {
	if m := r.Pattern.FindStringSubmatch(text); m != nil {
		target := strings.TrimSpace(m[1])
		if r.Normalize != nil {
			target = r.Normalize(target)
		}
		if target != "" {
			return target, true
		}
	}
	if r.Fallback != nil {
		return r.Fallback(f)
	}
	return "", false
}

// DefaultRules returns the written_by, published_by and belongs_to_genre
// rules in evaluation order.
//
// Rules see the whole chunk, not the sentence around a book, so every book
// in a chunk receives the same targets. The genre fallback assigns the first
// genre keyword of the chunk to every book with no explicit genre phrase.
func DefaultRules() []Rule {
	return []Rule{
		{
			Kind:    model.WrittenBy,
			Pattern: regexp.MustCompile(`written by\s+(` + nameSeq + `)`),
		},
		{
			Kind:    model.PublishedBy,
			Pattern: regexp.MustCompile(`published by\s+(` + publisherSeq + `)`),
		},
		{
			Kind:      model.BelongsToGenre,
			Pattern:   regexp.MustCompile(`belongs to the ([A-Za-z][A-Za-z -]*?)\s+genre\b`),
			Normalize: model.Capitalize,
			Fallback:  firstGenre,
		},
	}
}

func firstGenre(f Findings) (string, bool) {
	if len(f.Genres) == 0 {
		return "", false
	}
	return f.Genres[0], true
}

// genreKeywords returns the normalized genre keyword matches in text order.
func genreKeywords(text string) []string {
	matches := genrePattern.FindAllStringSubmatch(text, -1)
	genres := make([]string, 0, len(matches))
	for _, m := range matches {
		genres = append(genres, model.Capitalize(m[1]))
	}
	return genres
}
