package offline

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"ponydiary/internal/persistence/interfaces"
	"ponydiary/internal/providers"
	"ponydiary/internal/structures"
	"sync"
	"time"

	"go.uber.org/atomic"
)

type State string

const (
	StateIdle       State = "idle"
	StateInstalling State = "installing"
	StateInstalled  State = "installed"
	StateActivating State = "activating"
	StateActivated  State = "activated"
	StateRedundant  State = "redundant"
)

const (
	sourceCache    = "cache"
	sourceNetwork  = "network"
	sourceFallback = "fallback"
	sourceOffline  = "offline"
	sourceBypass   = "bypass"
)

const MessageSkipWaiting = "SKIP_WAITING"

// Message is a control command sent to the worker.
type Message struct {
	Type string `json:"type"`
}

type Status struct {
	Enabled          bool     `json:"enabled"`
	State            State    `json:"state"`
	Version          string   `json:"version"`
	ActiveGeneration string   `json:"active_generation,omitempty"`
	Entries          int      `json:"entries"`
	Generations      []string `json:"generations"`
}

// Worker keeps one asset generation current and answers requests for the
// configured origin cache-first. It implements http.RoundTripper.
type Worker struct {
	mu              sync.RWMutex
	enabled         bool
	state           State
	version         string
	origin          *url.URL
	manifest        []*url.URL
	fallback        *url.URL
	active          *Generation
	skipWaiting     atomic.Bool
	deferActivation bool
	snapshotPath    string
	fetchTimeout    time.Duration

	storage     *CacheStorage
	network     http.RoundTripper
	snapshotter interfaces.SnapshotterInterface
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
}

func NewWorker(conf *structures.Config, storage *CacheStorage, network http.RoundTripper, snapshotter interfaces.SnapshotterInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) (*Worker, error) {
	w := &Worker{
		enabled:         conf.Offline.Enabled,
		state:           StateIdle,
		version:         conf.Offline.Version,
		deferActivation: conf.Offline.DeferActivation,
		snapshotPath:    conf.Offline.SnapshotPath,
		fetchTimeout:    conf.Offline.FetchTimeout,
		storage:         storage,
		network:         network,
		snapshotter:     snapshotter,
		logger:          logger,
		metrics:         metrics,
	}
	if !w.enabled {
		return w, nil
	}

	rawOrigin := conf.Offline.Origin
	if rawOrigin == "" {
		rawOrigin = EmbeddedOrigin
	}
	origin, err := url.Parse(rawOrigin)
	if err != nil {
		return nil, fmt.Errorf("offline origin: %w", err)
	}
	w.origin = origin

	for _, path := range conf.Offline.Manifest {
		asset, err := w.resolve(path)
		if err != nil {
			return nil, fmt.Errorf("manifest entry %q: %w", path, err)
		}
		w.manifest = append(w.manifest, asset)
	}
	if w.fallback, err = w.resolve(conf.Offline.FallbackPath); err != nil {
		return nil, fmt.Errorf("fallback path %q: %w", conf.Offline.FallbackPath, err)
	}

	return w, nil
}

func (w *Worker) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	return w.origin.ResolveReference(ref), nil
}

// StartTimeout bounds Start: installs fetch the manifest one asset at a time,
// so each asset gets its own fetch timeout. Zero means no bound.
func (w *Worker) StartTimeout() time.Duration {
	if w.fetchTimeout <= 0 {
		return 0
	}
	return time.Duration(len(w.manifest)+1) * w.fetchTimeout
}

// Start restores the persisted generation, installs the configured version
// when it is not already present, and activates it unless activation is deferred.
func (w *Worker) Start(ctx context.Context) error {
	if !w.enabled {
		return nil
	}

	restored := w.restore()
	if restored == w.version {
		w.logger.Infof(providers.TypeApp, "Offline cache %s restored from snapshot", w.version)
		w.skipWaiting.Store(true)
		w.mu.Lock()
		w.state = StateInstalled
		w.mu.Unlock()
		return w.Activate(ctx)
	}

	if err := w.Install(ctx); err != nil {
		return err
	}

	if !w.skipWaiting.Load() {
		w.logger.Infof(providers.TypeApp, "Offline cache %s installed, waiting for %s", w.version, MessageSkipWaiting)
		return nil
	}
	return w.Activate(ctx)
}

// Install fetches every manifest asset into the generation named by the
// current version. Any failure discards the new generation and leaves the
// previously active one serving.
func (w *Worker) Install(ctx context.Context) error {
	if !w.enabled {
		return ErrDisabled
	}

	w.mu.Lock()
	if w.state == StateInstalling || w.state == StateActivating {
		w.mu.Unlock()
		return errUnexpectedState
	}
	w.state = StateInstalling
	w.mu.Unlock()

	w.logger.Infof(providers.TypeApp, "Installing offline cache %s (%d assets)", w.version, len(w.manifest))
	gen := w.storage.Open(w.version)

	for _, asset := range w.manifest {
		if err := w.fetchInto(ctx, gen, asset); err != nil {
			installErr := &InstallError{Generation: w.version, Asset: asset.String(), Err: err}
			w.failInstall(gen)
			w.logger.Errorf(providers.TypeApp, "Offline cache install failed: %s", installErr)
			return installErr
		}
	}

	w.mu.Lock()
	w.state = StateInstalled
	if !w.deferActivation {
		w.skipWaiting.Store(true)
	}
	w.mu.Unlock()

	w.logger.Infof(providers.TypeApp, "Offline cache %s populated", w.version)
	return nil
}

func (w *Worker) fetchInto(ctx context.Context, gen *Generation, asset *url.URL) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.String(), nil)
	if err != nil {
		return err
	}
	resp, err := w.network.RoundTrip(req)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	stored, err := captureResponse(resp)
	resp.Body.Close()
	if err != nil {
		return err
	}
	return gen.Pin(RequestKey(http.MethodGet, asset), stored)
}

func (w *Worker) failInstall(gen *Generation) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active != gen {
		w.storage.Delete(gen.Name())
	}
	if w.active != nil {
		w.state = StateActivated
	} else {
		w.state = StateRedundant
	}
}

// Activate deletes every generation other than the current version and then
// starts answering requests from it.
func (w *Worker) Activate(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateInstalled {
		return ErrNotInstalled
	}
	gen, ok := w.storage.Lookup(w.version)
	if !ok {
		return ErrNotInstalled
	}
	w.state = StateActivating

	for _, name := range w.storage.Keys() {
		if name == w.version {
			continue
		}
		w.storage.Delete(name)
		w.logger.Infof(providers.TypeApp, "Deleted stale offline cache %s", name)
	}

	w.active = gen
	w.state = StateActivated
	w.logger.Infof(providers.TypeApp, "Offline cache %s active", w.version)
	return nil
}

// SkipWaiting activates an installed generation immediately.
func (w *Worker) SkipWaiting(ctx context.Context) error {
	w.skipWaiting.Store(true)
	w.mu.RLock()
	waiting := w.state == StateInstalled
	w.mu.RUnlock()

	if !waiting {
		return nil
	}
	return w.Activate(ctx)
}

func (w *Worker) HandleMessage(ctx context.Context, msg Message) error {
	switch msg.Type {
	case MessageSkipWaiting:
		return w.SkipWaiting(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}

// RoundTrip answers same-origin GET requests from the active generation,
// falling back to the network and caching successful basic responses. When
// the network fails it substitutes the cached root document for navigations
// and an offline notice otherwise, so it never returns a transport error for
// intercepted requests.
func (w *Worker) RoundTrip(req *http.Request) (*http.Response, error) {
	w.mu.RLock()
	active := w.active
	w.mu.RUnlock()

	if active == nil || req.Method != http.MethodGet || !sameOrigin(req.URL, w.origin) {
		w.metrics.IncOfflineResponses(sourceBypass)
		return w.network.RoundTrip(req)
	}

	key := RequestKey(req.Method, req.URL)
	if stored, ok := active.Match(key); ok {
		w.metrics.IncOfflineResponses(sourceCache)
		return stored.toHTTP(req), nil
	}

	resp, err := w.network.RoundTrip(req)
	if err != nil {
		w.logger.Debugf(providers.TypeGet, "Network failed for %s: %s", req.URL, err)
		return w.offlineResponse(active, req), nil
	}

	if resp.StatusCode == http.StatusOK && w.isBasic(resp) {
		stored, err := captureResponse(resp)
		if err != nil {
			w.logger.Warnf(providers.TypeGet, "Not caching %s: %s", req.URL, err)
		} else if err := active.Put(key, stored); err != nil {
			w.logger.Warnf(providers.TypeGet, "Not caching %s: %s", req.URL, err)
		}
	}
	w.metrics.IncOfflineResponses(sourceNetwork)
	return resp, nil
}

func (w *Worker) isBasic(resp *http.Response) bool {
	return resp.Request == nil || sameOrigin(resp.Request.URL, w.origin)
}

func (w *Worker) offlineResponse(active *Generation, req *http.Request) *http.Response {
	if isNavigation(req) {
		if root, ok := active.Match(RequestKey(http.MethodGet, w.fallback)); ok {
			w.metrics.IncOfflineResponses(sourceFallback)
			return root.toHTTP(req)
		}
	}
	w.metrics.IncOfflineResponses(sourceOffline)
	return offlineNotice(req)
}

// Origin returns the upstream the worker fronts, or nil when disabled.
func (w *Worker) Origin() *url.URL {
	return w.origin
}

func (w *Worker) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	st := Status{
		Enabled:     w.enabled,
		State:       w.state,
		Version:     w.version,
		Generations: w.storage.Keys(),
	}
	if w.active != nil {
		st.ActiveGeneration = w.active.Name()
		st.Entries = w.active.Len()
	}
	return st
}
