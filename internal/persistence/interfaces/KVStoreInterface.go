package interfaces

import "context"

// KVStoreInterface is the byte-oriented key-value backend behind the journal.
// Each single-key operation is atomic.
type KVStoreInterface interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys returns every key starting with prefix in ascending byte order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	FlusherInterface
	Close() error
}

type FlusherInterface interface {
	Flush(ctx context.Context) error
}
