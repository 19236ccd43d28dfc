package driver

import (
	"context"
	"errors"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ErrUnavailable marks failures to reach the graph database, as opposed to
// query errors reported by a reachable server.
var ErrUnavailable = errors.New("graph database unavailable")

type GraphDriver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error)
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
