package controllers

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"ponydiary/internal/offline"
	"ponydiary/internal/providers"

	json "github.com/goccy/go-json"
)

// OfflineController exposes the asset cache worker: a caching reverse proxy
// for the app origin plus its control channel.
type OfflineController struct {
	worker *offline.Worker
	logger providers.Logger
	proxy  *httputil.ReverseProxy
}

func NewOfflineController(worker *offline.Worker, logger providers.Logger) *OfflineController {
	oc := &OfflineController{
		worker: worker,
		logger: logger,
	}
	oc.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			if origin := worker.Origin(); origin != nil {
				pr.SetURL(origin)
				pr.Out.Host = origin.Host
			}
		},
		Transport: worker,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warnf(providers.TypeGet, "Proxy error for %s: %s", r.URL.Path, err)
			http.Error(w, "Bad Gateway", http.StatusBadGateway)
		},
	}
	return oc
}

// Proxy serves the origin through the worker's cache.
func (oc *OfflineController) Proxy(w http.ResponseWriter, r *http.Request) {
	oc.proxy.ServeHTTP(w, r)
}

func (oc *OfflineController) Message(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var msg offline.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := oc.worker.HandleMessage(r.Context(), msg); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, offline.ErrUnknownMessage):
			status = http.StatusBadRequest
		case errors.Is(err, offline.ErrNotInstalled):
			status = http.StatusConflict
		}
		oc.logger.Warnf(providers.TypePost, "Offline message %q failed: %s", msg.Type, err)
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, oc.worker.Status())
}

func (oc *OfflineController) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, oc.worker.Status())
}
