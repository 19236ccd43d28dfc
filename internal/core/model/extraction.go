package model

import (
	"encoding/json"
	"strings"
	"unicode"
)

// ExtractionResult is what the extractor produces for a single chunk.
// Entities are grouped by kind in discovery order; relations follow book
// order, then rule order.
type ExtractionResult struct {
	Entities  map[EntityKind][]Entity
	Relations []Relation
}

// NewExtractionResult returns a result with an empty list for every kind.
func NewExtractionResult() *ExtractionResult {
	r := &ExtractionResult{
		Entities:  make(map[EntityKind][]Entity, len(EntityKinds)),
		Relations: []Relation{},
	}
	for _, k := range EntityKinds {
		r.Entities[k] = []Entity{}
	}
	return r
}

func (r *ExtractionResult) Books() []Entity      { return r.Entities[KindBook] }
func (r *ExtractionResult) Authors() []Entity    { return r.Entities[KindAuthor] }
func (r *ExtractionResult) Publishers() []Entity { return r.Entities[KindPublisher] }
func (r *ExtractionResult) Genres() []Entity     { return r.Entities[KindGenre] }

// EntityCount is the total number of entities across all kinds.
func (r *ExtractionResult) EntityCount() int {
	n := 0
	for _, es := range r.Entities {
		n += len(es)
	}
	return n
}

func (r *ExtractionResult) IsEmpty() bool {
	return r.EntityCount() == 0 && len(r.Relations) == 0
}

// HasEntity reports whether an entity of the given kind with exactly this
// value is present.
func (r *ExtractionResult) HasEntity(kind EntityKind, value string) bool {
	for _, e := range r.Entities[kind] {
		if e.Value == value {
			return true
		}
	}
	return false
}

type extractionJSON struct {
	Entities  map[string][]Entity `json:"entities"`
	Relations []Relation          `json:"relations"`
}

// MarshalJSON mirrors the shape {"entities":{"books":[{"title":..}],..},"relations":[..]}.
func (r *ExtractionResult) MarshalJSON() ([]byte, error) {
	out := extractionJSON{
		Entities:  make(map[string][]Entity, len(EntityKinds)),
		Relations: r.Relations,
	}
	if out.Relations == nil {
		out.Relations = []Relation{}
	}
	for _, k := range EntityKinds {
		es := r.Entities[k]
		if es == nil {
			es = []Entity{}
		}
		out.Entities[k.Plural()] = es
	}
	return json.Marshal(out)
}

func marshalKeyed(key, value string) ([]byte, error) {
	return json.Marshal(map[string]string{key: value})
}

// Capitalize normalizes a genre name to an upper-case first letter followed
// by lower case: "science FICTION" becomes "Science fiction".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := []rune(strings.ToLower(s))
	lower[0] = unicode.ToUpper(lower[0])
	return string(lower)
}
