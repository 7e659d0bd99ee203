package offline

import (
	"context"
	"ponydiary/internal/providers"
)

const cacheSnapshotVersion = 1

type cacheSnapshot struct {
	Version    int                        `json:"version"`
	Generation string                     `json:"generation"`
	Entries    map[string]*StoredResponse `json:"entries"`
	Pinned     []string                   `json:"pinned,omitempty"`
}

// Flush saves the active generation so it can serve offline after a restart.
func (w *Worker) Flush(_ context.Context) error {
	if !w.enabled || w.snapshotPath == "" {
		return nil
	}
	w.mu.RLock()
	active := w.active
	w.mu.RUnlock()
	if active == nil {
		return nil
	}

	snapshot := cacheSnapshot{
		Version:    cacheSnapshotVersion,
		Generation: active.Name(),
		Entries:    active.Entries(),
		Pinned:     active.PinnedKeys(),
	}
	return w.snapshotter.SaveToFile(w.snapshotPath, &snapshot)
}

// restore loads the persisted generation and returns its name, or "" when
// nothing usable was found. A restored generation other than the current
// version keeps serving until the new one activates.
func (w *Worker) restore() string {
	if w.snapshotPath == "" {
		return ""
	}
	var snapshot cacheSnapshot
	ok, err := w.snapshotter.LoadFromFile(w.snapshotPath, &snapshot)
	if err != nil {
		w.logger.Warnf(providers.TypeApp, "Ignoring unreadable offline cache snapshot: %s", err)
		return ""
	}
	if !ok || snapshot.Version != cacheSnapshotVersion || snapshot.Generation == "" {
		return ""
	}

	pinned := make(map[string]bool, len(snapshot.Pinned))
	for _, key := range snapshot.Pinned {
		pinned[key] = true
	}

	gen := w.storage.Open(snapshot.Generation)
	for key, resp := range snapshot.Entries {
		store := gen.Put
		if pinned[key] {
			store = gen.Pin
		}
		if err := store(key, resp); err != nil {
			w.logger.Warnf(providers.TypeApp, "Dropping snapshot entry %s: %s", key, err)
		}
	}

	if snapshot.Generation != w.version {
		w.mu.Lock()
		w.active = gen
		w.state = StateActivated
		w.mu.Unlock()
		w.logger.Infof(providers.TypeApp, "Serving previous offline cache %s until %s installs", snapshot.Generation, w.version)
	}
	return snapshot.Generation
}
