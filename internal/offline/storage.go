package offline

import (
	"ponydiary/internal/persistence/interfaces"
	"sort"
	"sync"
)

// CacheStorage holds every generation by name.
type CacheStorage struct {
	mu          sync.RWMutex
	generations map[string]*Generation
	sizeBytes   int
	compressor  interfaces.CompressorInterface
}

func NewCacheStorage(sizeMB int, compressor interfaces.CompressorInterface) *CacheStorage {
	return &CacheStorage{
		generations: make(map[string]*Generation),
		sizeBytes:   max(sizeMB, 1) * 1024 * 1024,
		compressor:  compressor,
	}
}

// Open returns the named generation, creating it empty if needed.
func (cs *CacheStorage) Open(name string) *Generation {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if g, ok := cs.generations[name]; ok {
		return g
	}
	g := newGeneration(name, cs.sizeBytes, cs.compressor)
	cs.generations[name] = g
	return g
}

func (cs *CacheStorage) Lookup(name string) (*Generation, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	g, ok := cs.generations[name]
	return g, ok
}

func (cs *CacheStorage) Keys() []string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	names := make([]string, 0, len(cs.generations))
	for name := range cs.generations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (cs *CacheStorage) Delete(name string) bool {
	cs.mu.Lock()
	g, ok := cs.generations[name]
	delete(cs.generations, name)
	cs.mu.Unlock()
	if ok {
		g.clear()
	}
	return ok
}
