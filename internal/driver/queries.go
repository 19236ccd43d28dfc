package driver

import (
	"fmt"

	"github.com/agenthands/bookgraph/internal/core/model"
)

// Labels, property keys and relationship types cannot be query parameters in
// Cypher, so they are formatted into the statement. Callers only pass values
// from the closed model enums; graphstore validates them before formatting.

// MergeNodeQuery upserts one node by its identifying property. uuid and
// created_at are only written when the node is first created.
func MergeNodeQuery(label, key string) string {
	return fmt.Sprintf(`
		MERGE (n:%s {%s: $value})
		ON CREATE SET n.uuid = $uuid,
			n.created_at = $created_at
		RETURN n.uuid AS uuid
	`, label, key)
}

// MergeEdgeQuery links two existing nodes. When either endpoint is missing
// the MATCH yields no rows and merged is 0.
func MergeEdgeQuery(rel, fromLabel, fromKey, toLabel, toKey string) string {
	return fmt.Sprintf(`
		MATCH (a:%s {%s: $from})
		MATCH (b:%s {%s: $to})
		MERGE (a)-[r:%s]->(b)
		ON CREATE SET r.created_at = $created_at
		RETURN count(r) AS merged
	`, fromLabel, fromKey, toLabel, toKey, rel)
}

func CountNodesQuery(label string) string {
	return fmt.Sprintf(`MATCH (n:%s) RETURN count(n) AS count`, label)
}

func CountEdgesQuery(rel string) string {
	return fmt.Sprintf(`MATCH ()-[r:%s]->() RETURN count(r) AS count`, rel)
}

type Index struct {
	Label    string
	Property string
}

// NodeIndexes lists the identifying property of every node label.
func NodeIndexes() []Index {
	indexes := make([]Index, 0, len(model.EntityKinds))
	for _, k := range model.EntityKinds {
		indexes = append(indexes, Index{Label: k.Label(), Property: k.Key()})
	}
	return indexes
}
