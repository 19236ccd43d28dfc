package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Neo4jDriver talks to a Neo4j server. Database selects a non-default
// database when set.
type Neo4jDriver struct {
	Driver   neo4j.DriverWithContext
	Database string
	logger   *zap.Logger
}

func NewNeo4jDriver(ctx context.Context, uri, username, password, database string, logger *zap.Logger) (*Neo4jDriver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	drv, err := connect(ctx, uri, username, password)
	if err != nil {
		return nil, err
	}

	logger.Info("connected to neo4j", zap.String("uri", uri), zap.String("database", database))
	return &Neo4jDriver{Driver: drv, Database: database, logger: logger}, nil
}

func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *Neo4jDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	var opts []neo4j.ExecuteQueryConfigurationOption
	if d.Database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(d.Database))
	}

	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return neo4j.EagerResult{}, classify(err)
	}
	return *result, nil
}

func (d *Neo4jDriver) BuildIndices(ctx context.Context) error {
	for _, idx := range NodeIndexes() {
		name := strings.ToLower(idx.Label + "_" + idx.Property)
		q := fmt.Sprintf("CREATE INDEX %s IF NOT EXISTS FOR (n:%s) ON (n.%s)", name, idx.Label, idx.Property)
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			return fmt.Errorf("failed to create index %s: %w", name, err)
		}
	}
	return nil
}
