package dedupe

import (
	"github.com/agenthands/bookgraph/internal/core/model"
)

// ByKey keeps the first item for every distinct key and drops the rest,
// preserving input order.
func ByKey[T any](items []T, key func(T) string) []T {
	out := make([]T, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Entities removes case-insensitive duplicates of the identifying value.
// The first occurrence wins and keeps its original casing. Entities of
// different kinds never collide.
func Entities(candidates []model.Entity) []model.Entity {
	return ByKey(candidates, func(e model.Entity) string {
		return string(e.Kind) + "\x00" + e.FoldedValue()
	})
}

// Result deduplicates every kind of an extraction result in place.
func Result(r *model.ExtractionResult) {
	for kind, es := range r.Entities {
		r.Entities[kind] = Entities(es)
	}
}
