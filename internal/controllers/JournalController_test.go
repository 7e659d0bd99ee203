package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"ponydiary/internal/models"
	"ponydiary/internal/services"
	"ponydiary/internal/structures"
	"ponydiary/internal/testutil"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

type journalFixture struct {
	kv      *testutil.MockKV
	cache   *testutil.MockCache
	logger  *testutil.MockLogger
	service services.JournalServiceInterface
	mux     *http.ServeMux
}

func newJournalFixture() *journalFixture {
	f := &journalFixture{
		kv:     testutil.NewMockKV(),
		cache:  testutil.NewMockCache(),
		logger: &testutil.MockLogger{},
	}
	conf := &structures.Config{Journal: structures.JournalConfig{Namespace: "pony_diary"}}
	f.service = services.NewJournalService(conf, f.kv, f.logger, testutil.NewMockMetrics())

	jc := NewJournalController(f.logger, f.service, f.cache)
	jc.now = func() time.Time { return time.Date(2024, time.April, 11, 12, 0, 0, 0, time.Local) }

	f.mux = http.NewServeMux()
	f.mux.HandleFunc("GET /api/{year}/entries", jc.ListEntries)
	f.mux.HandleFunc("DELETE /api/{year}/entries", jc.ClearEntries)
	f.mux.HandleFunc("GET /api/{year}/entries/{day}", jc.GetEntry)
	f.mux.HandleFunc("PUT /api/{year}/entries/{day}", jc.SaveEntry)
	f.mux.HandleFunc("DELETE /api/{year}/entries/{day}", jc.DeleteEntry)
	f.mux.HandleFunc("GET /api/{year}/stats", jc.GetStats)
	f.mux.HandleFunc("GET /api/{year}/export", jc.Export)
	f.mux.HandleFunc("GET /api/{year}/random", jc.RandomMemory)
	f.mux.HandleFunc("POST /api/import", jc.Import)
	f.mux.HandleFunc("GET /api/theme", jc.GetTheme)
	f.mux.HandleFunc("PUT /api/theme", jc.SetTheme)
	return f
}

func (f *journalFixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	f.mux.ServeHTTP(rr, req)
	return rr
}

func (f *journalFixture) save(t *testing.T, year, day int, text string) {
	t.Helper()
	_, err := f.service.Put(t.Context(), year, day, text, models.MoodNone)
	require.NoError(t, err)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

// --- entries ---

func TestSaveEntry_ThenGet(t *testing.T) {
	f := newJournalFixture()

	rr := f.do(http.MethodPut, "/api/2024/entries/45", `{"text":"  trotted to the lake ","mood":"happy"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var saved models.DayRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	assert.Equal(t, 45, saved.Day)
	assert.Equal(t, "trotted to the lake", saved.Text)
	assert.Equal(t, models.MoodHappy, saved.Mood)
	assert.Equal(t, 1, f.cache.ClearCalls)

	rr = f.do(http.MethodGet, "/api/2024/entries/45", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got models.DayRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, saved.Text, got.Text)
	assert.Equal(t, saved.Mood, got.Mood)
}

func TestSaveEntry_InvalidJSON(t *testing.T) {
	f := newJournalFixture()

	rr := f.do(http.MethodPut, "/api/2024/entries/45", "not json")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, f.kv.Data)
}

func TestSaveEntry_OversizedBody(t *testing.T) {
	f := newJournalFixture()

	big := `{"text":"` + strings.Repeat("x", maxRequestBodySize) + `"}`
	rr := f.do(http.MethodPut, "/api/2024/entries/45", big)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, f.kv.Data)
}

func TestSaveEntry_EmptyContentIsRejected(t *testing.T) {
	f := newJournalFixture()

	rr := f.do(http.MethodPut, "/api/2024/entries/45", `{"text":"   ","mood":""}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Empty(t, f.kv.Data)
	assert.Equal(t, 0, f.cache.ClearCalls)
}

func TestSaveEntry_UnknownMood(t *testing.T) {
	f := newJournalFixture()

	rr := f.do(http.MethodPut, "/api/2024/entries/45", `{"text":"hi","mood":"grumpy"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestSaveEntry_DayOutOfRange(t *testing.T) {
	f := newJournalFixture()

	assert.Equal(t, http.StatusUnprocessableEntity, f.do(http.MethodPut, "/api/2023/entries/366", `{"text":"hi"}`).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodPut, "/api/2024/entries/366", `{"text":"hi"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, f.do(http.MethodPut, "/api/2024/entries/0", `{"text":"hi"}`).Code)
}

func TestEntry_NonNumericPath(t *testing.T) {
	f := newJournalFixture()

	rr := f.do(http.MethodGet, "/api/twenty/entries/1", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeError(t, rr), "year")

	rr = f.do(http.MethodGet, "/api/2024/entries/first", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeError(t, rr), "day")
}

func TestGetEntry_Absent(t *testing.T) {
	f := newJournalFixture()

	rr := f.do(http.MethodGet, "/api/2024/entries/10", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "no record", decodeError(t, rr))
}

func TestDeleteEntry(t *testing.T) {
	f := newJournalFixture()
	f.save(t, 2024, 10, "hay")

	rr := f.do(http.MethodDelete, "/api/2024/entries/10", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 1, f.cache.ClearCalls)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/2024/entries/10", "").Code)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/2024/entries/10", "").Code)
}

func TestListEntries_ServedFromCache(t *testing.T) {
	f := newJournalFixture()
	f.save(t, 2024, 3, "a")
	f.save(t, 2024, 7, "b")
	f.save(t, 2023, 7, "other year")

	rr := f.do(http.MethodGet, "/api/2024/entries", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var records map[int]*models.DayRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	assert.Len(t, records, 2)
	assert.Equal(t, "b", records[7].Text)

	_, cached := f.cache.Data["list:2024"]
	assert.True(t, cached)

	f.kv.Data = map[string][]byte{}
	rr = f.do(http.MethodGet, "/api/2024/entries", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	assert.Len(t, records, 2)
}

func TestListEntries_StorageFailureHidesDetails(t *testing.T) {
	f := newJournalFixture()
	f.kv.FailKeys = true

	rr := f.do(http.MethodGet, "/api/2024/entries", "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal Server Error", decodeError(t, rr))
	assert.Empty(t, f.cache.Data)
}

func TestClearEntries_RequiresConfirm(t *testing.T) {
	f := newJournalFixture()
	f.save(t, 2024, 1, "a")
	f.save(t, 2024, 2, "b")

	rr := f.do(http.MethodDelete, "/api/2024/entries", "")
	assert.Equal(t, http.StatusPreconditionRequired, rr.Code)
	assert.Len(t, f.kv.Data, 2)

	rr = f.do(http.MethodDelete, "/api/2024/entries?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, f.kv.Data)
	assert.Equal(t, 1, f.logger.Count("warn"))
}

// --- stats ---

func TestGetStats_WithToday(t *testing.T) {
	f := newJournalFixture()
	f.save(t, 2024, 100, "ab")
	f.save(t, 2024, 101, "cde")
	f.save(t, 2024, 102, "пони")

	rr := f.do(http.MethodGet, "/api/2024/stats?today=2024-04-11", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var stats models.JournalStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.CompletedCount)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 9, stats.TotalWordCount)

	_, cached := f.cache.Data["stats:2024:2024-04-11"]
	assert.True(t, cached)
}

func TestGetStats_DefaultsToNow(t *testing.T) {
	f := newJournalFixture()
	f.save(t, 2024, 102, "today")

	rr := f.do(http.MethodGet, "/api/2024/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var stats models.JournalStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.CurrentStreak)
}

func TestGetStats_InvalidToday(t *testing.T) {
	f := newJournalFixture()

	rr := f.do(http.MethodGet, "/api/2024/stats?today=11/04/2024", "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- export / import ---

func TestExport_Empty(t *testing.T) {
	f := newJournalFixture()

	rr := f.do(http.MethodGet, "/api/2024/export", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestExport_Attachment(t *testing.T) {
	f := newJournalFixture()
	f.save(t, 2024, 12, "carrots")

	rr := f.do(http.MethodGet, "/api/2024/export", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), `attachment; filename="ponydiary_2024_backup_`)

	bundle, err := models.DecodeExportBundle(rr.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, models.ExportFormatVersion, bundle.FormatVersion)
	assert.Equal(t, 1, bundle.RecordCount)
	assert.Equal(t, "carrots", bundle.Records[12].Text)
}

func TestImport_RoundTrip(t *testing.T) {
	src := newJournalFixture()
	src.save(t, 2024, 12, "carrots")
	src.save(t, 2024, 13, "apples")
	exported := src.do(http.MethodGet, "/api/2024/export", "").Body.String()

	dst := newJournalFixture()
	rr := dst.do(http.MethodPost, "/api/import?confirm=true", exported)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp importResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Imported)
	assert.Equal(t, 1, dst.cache.ClearCalls)
	assert.Equal(t, http.StatusOK, dst.do(http.MethodGet, "/api/2024/entries/13", "").Code)
}

func TestImport_RequiresConfirm(t *testing.T) {
	src := newJournalFixture()
	src.save(t, 2024, 12, "carrots")
	exported := src.do(http.MethodGet, "/api/2024/export", "").Body.String()

	dst := newJournalFixture()
	rr := dst.do(http.MethodPost, "/api/import", exported)

	assert.Equal(t, http.StatusPreconditionRequired, rr.Code)
	assert.Empty(t, dst.kv.Data)
}

func TestImport_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"not json", "{", http.StatusBadRequest},
		{"no version", `{"year":2024,"records":{}}`, http.StatusBadRequest},
		{"future version", `{"formatVersion":"2.0","year":2024,"recordCount":1,"records":{"5":{"day":5,"text":"x"}}}`, http.StatusUnprocessableEntity},
		{"count mismatch", `{"formatVersion":"1.0","year":2024,"recordCount":2,"records":{"5":{"day":5,"text":"x"}}}`, http.StatusBadRequest},
		{"day out of range", `{"formatVersion":"1.0","year":2023,"recordCount":1,"records":{"366":{"day":366,"text":"x"}}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newJournalFixture()
			rr := f.do(http.MethodPost, "/api/import?confirm=true", tt.body)
			assert.Equal(t, tt.status, rr.Code)
			assert.Empty(t, f.kv.Data)
			assert.Equal(t, 0, f.cache.ClearCalls)
		})
	}
}

// --- random / theme ---

func TestRandomMemory(t *testing.T) {
	f := newJournalFixture()

	rr := f.do(http.MethodGet, "/api/2024/random", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "no records yet", decodeError(t, rr))

	f.save(t, 2024, 200, "only one")
	rr = f.do(http.MethodGet, "/api/2024/random", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var record models.DayRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &record))
	assert.Equal(t, 200, record.Day)
}

func TestTheme(t *testing.T) {
	f := newJournalFixture()

	rr := f.do(http.MethodGet, "/api/theme", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"theme":"light"}`, rr.Body.String())

	rr = f.do(http.MethodPut, "/api/theme", `{"theme":"dark"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(http.MethodGet, "/api/theme", "")
	assert.JSONEq(t, `{"theme":"dark"}`, rr.Body.String())

	rr = f.do(http.MethodPut, "/api/theme", `{"theme":"neon"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = f.do(http.MethodPut, "/api/theme", `dark`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{models.ErrValidation, http.StatusUnprocessableEntity},
		{models.ErrInvalidDay, http.StatusUnprocessableEntity},
		{models.ErrVersionMismatch, http.StatusUnprocessableEntity},
		{models.ErrInvalidTheme, http.StatusUnprocessableEntity},
		{models.ErrMalformedBundle, http.StatusBadRequest},
		{models.ErrImportNotConfirmed, http.StatusPreconditionRequired},
		{models.ErrEmptyExport, http.StatusNotFound},
		{testutil.ErrInjected, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusForError(tt.err))
		})
	}
}
