package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

type MemgraphDriver struct {
	Driver neo4j.DriverWithContext
	logger *zap.Logger
}

func NewMemgraphDriver(ctx context.Context, uri, username, password string, logger *zap.Logger) (*MemgraphDriver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	drv, err := connect(ctx, uri, username, password)
	if err != nil {
		return nil, err
	}

	logger.Info("connected to memgraph", zap.String("uri", uri))
	return &MemgraphDriver{Driver: drv, logger: logger}, nil
}

func (d *MemgraphDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *MemgraphDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, classify(err)
	}
	return *result, nil
}

// BuildIndices creates a label-property index for every node label. Memgraph
// has no IF NOT EXISTS form, so a failure on an existing index is logged and
// skipped.
func (d *MemgraphDriver) BuildIndices(ctx context.Context) error {
	for _, idx := range NodeIndexes() {
		q := fmt.Sprintf("CREATE INDEX ON :%s(%s);", idx.Label, idx.Property)
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			if errors.Is(err, ErrUnavailable) {
				return err
			}
			d.logger.Warn("failed to create index", zap.String("query", q), zap.Error(err))
		}
	}
	return nil
}

func connect(ctx context.Context, uri, username, password string) (neo4j.DriverWithContext, error) {
	drv, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create driver for %s: %w", ErrUnavailable, uri, err)
	}

	if err := drv.VerifyConnectivity(ctx); err != nil {
		_ = drv.Close(ctx)
		return nil, fmt.Errorf("%w: failed to connect to %s: %w", ErrUnavailable, uri, err)
	}
	return drv, nil
}

func classify(err error) error {
	if unavailable(err) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return fmt.Errorf("failed to execute query: %w", err)
}

// unavailable reports whether err means the server could not be reached.
// ExecuteQuery retries connectivity failures and then reports them inside a
// TransactionExecutionLimit, which does not unwrap.
func unavailable(err error) bool {
	var connErr *neo4j.ConnectivityError
	if errors.As(err, &connErr) {
		return true
	}
	var limit *neo4j.TransactionExecutionLimit
	if errors.As(err, &limit) {
		for _, e := range limit.Errors {
			if unavailable(e) {
				return true
			}
		}
	}
	return false
}
