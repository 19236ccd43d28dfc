package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RelationKind labels a directed edge from a Book to another entity.
type RelationKind string

const (
	WrittenBy      RelationKind = "WRITTEN_BY"
	PublishedBy    RelationKind = "PUBLISHED_BY"
	BelongsToGenre RelationKind = "BELONGS_TO_GENRE"
)

// RelationKinds lists the kinds in rule evaluation order.
var RelationKinds = []RelationKind{WrittenBy, PublishedBy, BelongsToGenre}

// Target returns the entity kind a relation of this kind points at.
func (k RelationKind) Target() EntityKind {
	switch k {
	case WrittenBy:
		return KindAuthor
	case PublishedBy:
		return KindPublisher
	case BelongsToGenre:
		return KindGenre
	}
	return ""
}

func (k RelationKind) Valid() bool {
	return k.Target() != ""
}

// String returns the lower-case name used in serialized results (written_by).
func (k RelationKind) String() string {
	return strings.ToLower(string(k))
}

func (k RelationKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *RelationKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind := RelationKind(strings.ToUpper(s))
	if !kind.Valid() {
		return fmt.Errorf("unknown relation kind %q", s)
	}
	*k = kind
	return nil
}

// Relation is a directed labeled association from a book title to the
// identifying value of an author, publisher or genre. The target is resolved
// to a node only when the relation is written.
type Relation struct {
	Book   string       `json:"book"`
	Kind   RelationKind `json:"relation"`
	Target string       `json:"target"`
}
