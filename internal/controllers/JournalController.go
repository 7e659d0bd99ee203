package controllers

import (
	"fmt"
	"io"
	"net/http"
	"ponydiary/internal/models"
	"ponydiary/internal/providers"
	"ponydiary/internal/services"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB
const maxImportBodySize = 8 << 20

type saveEntryRequest struct {
	Text string      `json:"text"`
	Mood models.Mood `json:"mood"`
}

type importResponse struct {
	Imported int `json:"imported"`
}

type themePayload struct {
	Theme models.Theme `json:"theme"`
}

// JournalController binds the presentation contract (save, delete, stats,
// export, import) to the journal service.
type JournalController struct {
	logger  providers.Logger
	service services.JournalServiceInterface
	cache   providers.CacheProviderInterface
	now     func() time.Time
}

func NewJournalController(logger providers.Logger, service services.JournalServiceInterface, cache providers.CacheProviderInterface) *JournalController {
	return &JournalController{
		logger:  logger,
		service: service,
		cache:   cache,
		now:     time.Now,
	}
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, r.PathValue(name))
	}
	return v, nil
}

func (jc *JournalController) yearDay(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	year, err := pathInt(r, "year")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return 0, 0, false
	}
	day, err := pathInt(r, "day")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return 0, 0, false
	}
	return year, day, true
}

func (jc *JournalController) year(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := pathInt(r, "year")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return 0, false
	}
	return year, true
}

func (jc *JournalController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := jc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		writeError(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	jc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (jc *JournalController) ListEntries(w http.ResponseWriter, r *http.Request) {
	year, ok := jc.year(w, r)
	if !ok {
		return
	}
	jc.serveFromCacheOrCompute(w, "list:"+strconv.Itoa(year), func() (any, error) {
		return jc.service.Enumerate(r.Context(), year)
	})
}

func (jc *JournalController) GetEntry(w http.ResponseWriter, r *http.Request) {
	year, day, ok := jc.yearDay(w, r)
	if !ok {
		return
	}
	record, found, err := jc.service.Get(r.Context(), year, day)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no record"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (jc *JournalController) SaveEntry(w http.ResponseWriter, r *http.Request) {
	year, day, ok := jc.yearDay(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload saveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	record, err := jc.service.Put(r.Context(), year, day, payload.Text, payload.Mood)
	if err != nil {
		writeError(w, err)
		return
	}
	jc.cache.Clear()
	jc.logger.Infof(providers.GetLogTypeByRequestType(r.Method), "Saved %d/%d", year, day)
	writeJSON(w, http.StatusOK, record)
}

func (jc *JournalController) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	year, day, ok := jc.yearDay(w, r)
	if !ok {
		return
	}
	if err := jc.service.Delete(r.Context(), year, day); err != nil {
		writeError(w, err)
		return
	}
	jc.cache.Clear()
	jc.logger.Infof(providers.GetLogTypeByRequestType(r.Method), "Deleted %d/%d", year, day)
	w.WriteHeader(http.StatusNoContent)
}

func (jc *JournalController) ClearEntries(w http.ResponseWriter, r *http.Request) {
	year, ok := jc.year(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusPreconditionRequired, errorResponse{Error: "clearing all entries requires confirm=true"})
		return
	}
	if err := jc.service.ClearAll(r.Context(), year); err != nil {
		writeError(w, err)
		return
	}
	jc.cache.Clear()
	jc.logger.Warnf(providers.GetLogTypeByRequestType(r.Method), "Cleared all entries for %d", year)
	w.WriteHeader(http.StatusNoContent)
}

func (jc *JournalController) GetStats(w http.ResponseWriter, r *http.Request) {
	year, ok := jc.year(w, r)
	if !ok {
		return
	}
	today := jc.now()
	if raw := r.URL.Query().Get("today"); raw != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "today must be YYYY-MM-DD"})
			return
		}
		today = parsed
	}
	cacheKey := "stats:" + strconv.Itoa(year) + ":" + today.Format(time.DateOnly)
	jc.serveFromCacheOrCompute(w, cacheKey, func() (any, error) {
		return jc.service.Stats(r.Context(), year, today)
	})
}

func (jc *JournalController) Export(w http.ResponseWriter, r *http.Request) {
	year, ok := jc.year(w, r)
	if !ok {
		return
	}
	bundle, err := jc.service.Export(r.Context(), year)
	if err != nil {
		writeError(w, err)
		return
	}
	gson, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, models.ExportFileName(year, bundle.ExportedAt)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (jc *JournalController) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBodySize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	bundle, err := models.DecodeExportBundle(data)
	if err != nil {
		writeError(w, err)
		return
	}

	count, err := jc.service.Import(r.Context(), bundle, r.URL.Query().Get("confirm") == "true")
	if err != nil {
		jc.logger.Warnf(providers.GetLogTypeByRequestType(r.Method), "Import rejected: %s", err)
		writeError(w, err)
		return
	}
	jc.cache.Clear()
	writeJSON(w, http.StatusOK, importResponse{Imported: count})
}

func (jc *JournalController) RandomMemory(w http.ResponseWriter, r *http.Request) {
	year, ok := jc.year(w, r)
	if !ok {
		return
	}
	record, found, err := jc.service.RandomMemory(r.Context(), year)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no records yet"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (jc *JournalController) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := jc.service.GetTheme(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, themePayload{Theme: theme})
}

func (jc *JournalController) SetTheme(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload themePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := jc.service.SetTheme(r.Context(), payload.Theme); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
