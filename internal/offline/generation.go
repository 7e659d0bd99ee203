package offline

import (
	"fmt"
	"ponydiary/internal/persistence/interfaces"
	"sync"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"
)

// Generation is one versioned snapshot of cached assets. Entries are stored
// as zstd-compressed JSON. Pinned entries (the install manifest) live in a
// map and are never evicted; responses cached at runtime go to a dedicated
// freecache instance that drops its oldest entries when full.
type Generation struct {
	name       string
	mu         sync.RWMutex
	pinned     map[string][]byte
	cache      *freecache.Cache
	compressor interfaces.CompressorInterface
}

func newGeneration(name string, sizeBytes int, compressor interfaces.CompressorInterface) *Generation {
	return &Generation{
		name:       name,
		pinned:     make(map[string][]byte),
		cache:      freecache.NewCache(sizeBytes),
		compressor: compressor,
	}
}

func (g *Generation) Name() string {
	return g.name
}

func (g *Generation) encode(resp *StoredResponse) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return g.compressor.Compress(data)
}

// Pin stores an entry that must survive for the life of the generation.
func (g *Generation) Pin(key string, resp *StoredResponse) error {
	packed, err := g.encode(resp)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.pinned[key] = packed
	g.mu.Unlock()
	g.cache.Del([]byte(key))
	return nil
}

// Put stores an evictable entry. Pinned keys are left untouched.
func (g *Generation) Put(key string, resp *StoredResponse) error {
	g.mu.RLock()
	_, pinned := g.pinned[key]
	g.mu.RUnlock()
	if pinned {
		return nil
	}

	packed, err := g.encode(resp)
	if err != nil {
		return err
	}
	if err := g.cache.Set([]byte(key), packed, 0); err != nil {
		return fmt.Errorf("cache %s: %w", key, err)
	}
	return nil
}

func (g *Generation) Match(key string) (*StoredResponse, bool) {
	g.mu.RLock()
	packed, ok := g.pinned[key]
	g.mu.RUnlock()
	if !ok {
		var err error
		if packed, err = g.cache.Get([]byte(key)); err != nil {
			return nil, false
		}
	}
	resp, err := g.decode(packed)
	if err != nil {
		return nil, false
	}
	return resp, true
}

func (g *Generation) IsPinned(key string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.pinned[key]
	return ok
}

// PinnedKeys lists the keys of pinned entries in no particular order.
func (g *Generation) PinnedKeys() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := make([]string, 0, len(g.pinned))
	for key := range g.pinned {
		keys = append(keys, key)
	}
	return keys
}

func (g *Generation) decode(packed []byte) (*StoredResponse, error) {
	data, err := g.compressor.Decompress(packed)
	if err != nil {
		return nil, err
	}
	var resp StoredResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (g *Generation) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.pinned) + int(g.cache.EntryCount())
}

// Entries decodes every stored response keyed by request identity.
func (g *Generation) Entries() map[string]*StoredResponse {
	entries := make(map[string]*StoredResponse, g.Len())
	it := g.cache.NewIterator()
	for entry := it.Next(); entry != nil; entry = it.Next() {
		resp, err := g.decode(entry.Value)
		if err != nil {
			continue
		}
		entries[string(entry.Key)] = resp
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for key, packed := range g.pinned {
		resp, err := g.decode(packed)
		if err != nil {
			continue
		}
		entries[key] = resp
	}
	return entries
}

func (g *Generation) clear() {
	g.mu.Lock()
	g.pinned = make(map[string][]byte)
	g.mu.Unlock()
	g.cache.Clear()
}
