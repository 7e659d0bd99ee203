package persistence

import (
	"context"
	"errors"
	"ponydiary/internal/providers"
	"sort"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

const fileSnapshotVersion = 1

// fileSnapshot is the on-disk envelope of the file backend.
type fileSnapshot struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// FileKV keeps every entry in memory and persists a full snapshot on Flush.
type FileKV struct {
	mu          sync.RWMutex
	data        map[string][]byte
	rev         uint64
	savedRev    uint64
	path        string
	fileManager *FileManager
	logger      providers.Logger
}

func NewFileKV(path string, fileManager *FileManager, logger providers.Logger) (*FileKV, error) {
	kv := &FileKV{
		data:        make(map[string][]byte),
		path:        path,
		fileManager: fileManager,
		logger:      logger,
	}
	if err := kv.restore(); err != nil {
		return nil, err
	}
	return kv, nil
}

func (kv *FileKV) restore() error {
	raw, err := kv.fileManager.ReadFile(kv.path)
	if err != nil {
		return err
	}
	if raw == nil {
		kv.logger.Infof(providers.TypeApp, "No journal snapshot at %s, starting empty", kv.path)
		return nil
	}

	var snapshot fileSnapshot
	if err := json.Unmarshal(raw, &snapshot); err == nil && snapshot.Version > 0 && snapshot.Entries != nil {
		for k, v := range snapshot.Entries {
			kv.data[k] = []byte(v)
		}
		kv.logger.Infof(providers.TypeApp, "Restored %d journal keys from %s", len(kv.data), kv.path)
		return nil
	}

	// A flat key/value object is what a browser localStorage dump looks like.
	kv.logger.Warnf(providers.TypeApp, "Journal snapshot has no envelope, trying flat key/value layout")
	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		kv.logger.Warnf(providers.TypeApp, "Migration failed")
		return err
	}
	for k, v := range flat {
		kv.data[k] = []byte(v)
	}
	kv.rev++
	kv.logger.Warnf(providers.TypeApp, "Migration from flat layout successful: %d keys", len(flat))
	return nil
}

func (kv *FileKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	val, ok := kv.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, true, nil
}

func (kv *FileKV) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("empty key")
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = stored
	kv.rev++
	return nil
}

func (kv *FileKV) Delete(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if _, ok := kv.data[key]; ok {
		delete(kv.data, key)
		kv.rev++
	}
	return nil
}

func (kv *FileKV) Keys(_ context.Context, prefix string) ([]string, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	keys := make([]string, 0)
	for k := range kv.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (kv *FileKV) Dirty() bool {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	return kv.rev != kv.savedRev
}

// Flush writes a snapshot if anything changed since the last successful flush.
func (kv *FileKV) Flush(_ context.Context) error {
	kv.mu.RLock()
	if kv.rev == kv.savedRev {
		kv.mu.RUnlock()
		return nil
	}
	rev := kv.rev
	snapshot := fileSnapshot{
		Version: fileSnapshotVersion,
		Entries: make(map[string]string, len(kv.data)),
	}
	for k, v := range kv.data {
		snapshot.Entries[k] = string(v)
	}
	kv.mu.RUnlock()

	if err := kv.fileManager.SaveToFile(kv.path, &snapshot); err != nil {
		return err
	}

	kv.mu.Lock()
	if rev > kv.savedRev {
		kv.savedRev = rev
	}
	kv.mu.Unlock()
	return nil
}

func (kv *FileKV) Close() error {
	return kv.Flush(context.Background())
}
