package model

import "strings"

// EntityKind is the type of an extracted entity. It doubles as the node label
// in the graph.
type EntityKind string

const (
	KindBook      EntityKind = "Book"
	KindAuthor    EntityKind = "Author"
	KindPublisher EntityKind = "Publisher"
	KindGenre     EntityKind = "Genre"
)

// EntityKinds lists every kind in the order entities are written.
var EntityKinds = []EntityKind{KindBook, KindAuthor, KindPublisher, KindGenre}

// Label returns the graph node label for the kind.
func (k EntityKind) Label() string {
	return string(k)
}

// Key returns the identifying property of nodes of this kind.
func (k EntityKind) Key() string {
	if k == KindBook {
		return "title"
	}
	return "name"
}

// Plural is the key used for the kind in serialized results.
func (k EntityKind) Plural() string {
	switch k {
	case KindBook:
		return "books"
	case KindAuthor:
		return "authors"
	case KindPublisher:
		return "publishers"
	case KindGenre:
		return "genres"
	}
	return strings.ToLower(string(k)) + "s"
}

func (k EntityKind) Valid() bool {
	switch k {
	case KindBook, KindAuthor, KindPublisher, KindGenre:
		return true
	}
	return false
}

// Entity is a typed record identified by a single string attribute: the title
// of a book or the name of an author, publisher or genre.
type Entity struct {
	Kind  EntityKind `json:"-"`
	Value string     `json:"value"`
}

func NewBook(title string) Entity     { return Entity{Kind: KindBook, Value: title} }
func NewAuthor(name string) Entity    { return Entity{Kind: KindAuthor, Value: name} }
func NewPublisher(name string) Entity { return Entity{Kind: KindPublisher, Value: name} }
func NewGenre(name string) Entity     { return Entity{Kind: KindGenre, Value: name} }

// FoldedValue is the case-insensitive identity used for deduplication.
func (e Entity) FoldedValue() string {
	return strings.ToLower(e.Value)
}

// MarshalJSON renders the entity with its kind-specific key, e.g.
// {"title":"Dune"} or {"name":"Frank Herbert"}.
func (e Entity) MarshalJSON() ([]byte, error) {
	return marshalKeyed(e.Kind.Key(), e.Value)
}
