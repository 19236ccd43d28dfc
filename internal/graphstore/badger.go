package graphstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	nodePrefix = "n/"
	edgePrefix = "e/"
)

// BadgerStore is an embedded, file-backed graph for single-process use.
//
// Keys:
//
//	n/<label>/<value>                                   -> nodeRecord
//	e/<rel>/<fromLabel>/<len(from)>:<from>/<toLabel>/<to> -> edgeRecord
//
// Values may contain '/', labels and relationship types may not, so only the
// first segment after the prefix is ever parsed back out. The byte length of
// the source value keeps edge keys unique when values contain '/'.
type BadgerStore struct {
	db     *badger.DB
	logger *zap.Logger
}

type nodeRecord struct {
	UUID      string `json:"uuid"`
	Key       string `json:"key"`
	CreatedAt string `json:"created_at"`
}

type edgeRecord struct {
	CreatedAt string `json:"created_at"`
}

func OpenBadgerStore(path string, logger *zap.Logger) (*BadgerStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{logger.Sugar()})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open badger store at %s: %w", ErrUnavailable, path, err)
	}
	logger.Info("opened badger store", zap.String("path", path))
	return &BadgerStore{db: db, logger: logger}, nil
}

func nodeKey(label, value string) []byte {
	return []byte(nodePrefix + label + "/" + value)
}

func edgeKey(rel string, from, to NodeRef) []byte {
	return []byte(edgePrefix + rel + "/" + from.Label + "/" +
		strconv.Itoa(len(from.Value)) + ":" + from.Value + "/" + to.Label + "/" + to.Value)
}

func (s *BadgerStore) MergeNode(ctx context.Context, label, key, value string) error {
	if err := checkNames(label, key); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		k := nodeKey(label, value)
		_, err := txn.Get(k)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		rec, err := json.Marshal(nodeRecord{
			UUID:      uuid.NewString(),
			Key:       key,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
		return txn.Set(k, rec)
	})
	if err != nil {
		return fmt.Errorf("failed to merge %s node %q: %w", label, value, mapBadgerErr(err))
	}
	return nil
}

func (s *BadgerStore) MergeEdge(ctx context.Context, rel string, from, to NodeRef) (bool, error) {
	if err := checkNames(rel, from.Label, from.Key, to.Label, to.Key); err != nil {
		return false, err
	}

	merged := false
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, k := range [][]byte{nodeKey(from.Label, from.Value), nodeKey(to.Label, to.Value)} {
			if _, err := txn.Get(k); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return nil
				}
				return err
			}
		}

		k := edgeKey(rel, from, to)
		_, err := txn.Get(k)
		if err == nil {
			merged = true
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		rec, err := json.Marshal(edgeRecord{CreatedAt: time.Now().UTC().Format(time.RFC3339)})
		if err != nil {
			return err
		}
		if err := txn.Set(k, rec); err != nil {
			return err
		}
		merged = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to merge %s edge %q -> %q: %w", rel, from.Value, to.Value, mapBadgerErr(err))
	}
	return merged, nil
}

func (s *BadgerStore) Counts(ctx context.Context) (Counts, error) {
	counts := newCounts()
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for _, prefix := range []string{nodePrefix, edgePrefix} {
			p := []byte(prefix)
			for it.Seek(p); it.ValidForPrefix(p); it.Next() {
				rest := bytes.TrimPrefix(it.Item().Key(), p)
				name, _, _ := bytes.Cut(rest, []byte("/"))
				if prefix == nodePrefix {
					counts.Labels[string(name)]++
					counts.Nodes++
				} else {
					counts.Relationships[string(name)]++
					counts.Edges++
				}
			}
		}
		return nil
	})
	if err != nil {
		return Counts{}, fmt.Errorf("failed to count graph: %w", mapBadgerErr(err))
	}
	return counts, nil
}

// EnsureSchema is a no-op: keys are already addressed by label and value.
func (s *BadgerStore) EnsureSchema(ctx context.Context) error {
	return nil
}

func (s *BadgerStore) Close(ctx context.Context) error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}

func mapBadgerErr(err error) error {
	if errors.Is(err, badger.ErrDBClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return err
}

type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
