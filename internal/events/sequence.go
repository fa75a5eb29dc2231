package events

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rahul4902/blood-sub001/internal/storage"
)

type SequenceRepository interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

// StorageSequence keeps one counter per partition in the client storage.
// Increments are serialized within the process only.
type StorageSequence struct {
	mu    sync.Mutex
	store storage.Store
}

func NewStorageSequence(store storage.Store) *StorageSequence {
	return &StorageSequence{store: store}
}

func sequenceKey(partitionKey string) string {
	return "event-seq:" + partitionKey
}

func (r *StorageSequence) NextSequence(ctx context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, fmt.Errorf("partition key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := sequenceKey(partitionKey)
	var last int64
	b, err := r.store.Get(ctx, key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return 0, fmt.Errorf("read sequence: %w", err)
	default:
		if last, err = strconv.ParseInt(string(b), 10, 64); err != nil {
			return 0, fmt.Errorf("parse sequence %q: %w", b, err)
		}
	}

	next := last + 1
	if err := r.store.Set(ctx, key, []byte(strconv.FormatInt(next, 10))); err != nil {
		return 0, fmt.Errorf("write sequence: %w", err)
	}
	return next, nil
}
