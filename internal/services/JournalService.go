package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"ponydiary/internal/models"
	"ponydiary/internal/persistence/interfaces"
	"ponydiary/internal/providers"
	"ponydiary/internal/structures"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const themeSuffix = "_theme"

type JournalServiceInterface interface {
	Put(ctx context.Context, year, day int, text string, mood models.Mood) (*models.DayRecord, error)
	Get(ctx context.Context, year, day int) (*models.DayRecord, bool, error)
	Delete(ctx context.Context, year, day int) error
	Enumerate(ctx context.Context, year int) (map[int]*models.DayRecord, error)
	ClearAll(ctx context.Context, year int) error
	Stats(ctx context.Context, year int, today time.Time) (*models.JournalStats, error)
	Export(ctx context.Context, year int) (*models.ExportBundle, error)
	Import(ctx context.Context, bundle *models.ExportBundle, confirmOverwrite bool) (int, error)
	RandomMemory(ctx context.Context, year int) (*models.DayRecord, bool, error)
	GetTheme(ctx context.Context) (models.Theme, error)
	SetTheme(ctx context.Context, theme models.Theme) error
}

// JournalService maps (year, day) slots onto the key-value backend.
type JournalService struct {
	kv        interfaces.KVStoreInterface
	namespace string
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	now       func() time.Time
}

func NewJournalService(conf *structures.Config, kv interfaces.KVStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) JournalServiceInterface {
	return &JournalService{
		kv:        kv,
		namespace: conf.Journal.Namespace,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

func (js *JournalService) key(year, day int) string {
	return models.NewStorageKey(js.namespace, year, day).Encode()
}

func checkDay(year, day int) error {
	if !models.ValidDay(year, day) {
		return fmt.Errorf("year %d day %d: %w", year, day, models.ErrInvalidDay)
	}
	return nil
}

func (js *JournalService) Put(ctx context.Context, year, day int, text string, mood models.Mood) (*models.DayRecord, error) {
	if err := checkDay(year, day); err != nil {
		return nil, err
	}
	if !mood.Valid() {
		return nil, fmt.Errorf("unknown mood %q: %w", mood, models.ErrValidation)
	}

	record := models.NewDayRecord(year, day, text, mood, js.now())
	if !record.HasContent() {
		return nil, models.ErrValidation
	}

	if err := js.write(ctx, record); err != nil {
		return nil, err
	}
	js.refreshRecordGauge(ctx, year)
	return record, nil
}

func (js *JournalService) write(ctx context.Context, record *models.DayRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := js.kv.Set(ctx, js.key(record.Year, record.Day), data); err != nil {
		return fmt.Errorf("store record %d/%d: %w", record.Year, record.Day, err)
	}
	return nil
}

func (js *JournalService) Get(ctx context.Context, year, day int) (*models.DayRecord, bool, error) {
	if err := checkDay(year, day); err != nil {
		return nil, false, err
	}
	return js.read(ctx, js.key(year, day), year, day)
}

func (js *JournalService) read(ctx context.Context, key string, year, day int) (*models.DayRecord, bool, error) {
	data, ok, err := js.kv.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var record models.DayRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false, fmt.Errorf("decode record %s: %w", key, err)
	}
	record.Year = year
	record.Day = day
	return &record, true, nil
}

func (js *JournalService) Delete(ctx context.Context, year, day int) error {
	if err := checkDay(year, day); err != nil {
		return err
	}
	if err := js.kv.Delete(ctx, js.key(year, day)); err != nil {
		return err
	}
	js.refreshRecordGauge(ctx, year)
	return nil
}

// yearKeys returns the record keys of year indexed by day.
func (js *JournalService) yearKeys(ctx context.Context, year int) (map[int]string, error) {
	keys, err := js.kv.Keys(ctx, models.YearPrefix(js.namespace, year))
	if err != nil {
		return nil, err
	}
	result := make(map[int]string, len(keys))
	for _, raw := range keys {
		sk, err := models.DecodeStorageKey(raw)
		if err != nil || sk.Namespace != js.namespace || sk.Year != year || !models.ValidDay(year, sk.Day) {
			continue
		}
		result[sk.Day] = raw
	}
	return result, nil
}

func (js *JournalService) Enumerate(ctx context.Context, year int) (map[int]*models.DayRecord, error) {
	if year < 1 {
		return nil, fmt.Errorf("year %d: %w", year, models.ErrInvalidDay)
	}
	keys, err := js.yearKeys(ctx, year)
	if err != nil {
		return nil, err
	}

	records := make(map[int]*models.DayRecord, len(keys))
	for day, key := range keys {
		record, ok, err := js.read(ctx, key, year, day)
		if err != nil {
			js.logger.Warnf(providers.TypeApp, "Skipping unreadable record %s: %s", key, err)
			continue
		}
		if ok {
			records[day] = record
		}
	}
	return records, nil
}

func (js *JournalService) ClearAll(ctx context.Context, year int) error {
	keys, err := js.yearKeys(ctx, year)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := js.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	js.logger.Infof(providers.TypeApp, "Cleared %d records for %d", len(keys), year)
	js.metrics.SetRecordsTotal(year, 0)
	return nil
}

// Stats walks back from today while records are present. A today after year
// starts from the year's last day; a today before year yields no streak.
func (js *JournalService) Stats(ctx context.Context, year int, today time.Time) (*models.JournalStats, error) {
	records, err := js.Enumerate(ctx, year)
	if err != nil {
		return nil, err
	}

	stats := &models.JournalStats{Year: year, CompletedCount: len(records)}
	for _, r := range records {
		stats.TotalWordCount += r.CharCount()
	}

	days := models.NewDaySet(records)
	switch {
	case today.Year() == year:
		stats.CurrentStreak = days.StreakEndingAt(models.DayOfYear(today))
	case today.Year() > year:
		stats.CurrentStreak = days.StreakEndingAt(models.DaysInYear(year))
	}

	return stats, nil
}

func (js *JournalService) Export(ctx context.Context, year int) (*models.ExportBundle, error) {
	records, err := js.Enumerate(ctx, year)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, models.ErrEmptyExport
	}
	return models.NewExportBundle(year, records, js.now()), nil
}

func validateBundle(bundle *models.ExportBundle) error {
	if bundle == nil {
		return fmt.Errorf("%w: empty bundle", models.ErrMalformedBundle)
	}
	if bundle.FormatVersion != models.ExportFormatVersion {
		return fmt.Errorf("%w: %q", models.ErrVersionMismatch, bundle.FormatVersion)
	}
	if bundle.Year < 1 {
		return fmt.Errorf("%w: invalid year %d", models.ErrMalformedBundle, bundle.Year)
	}
	if bundle.RecordCount != len(bundle.Records) {
		return fmt.Errorf("%w: recordCount %d does not match %d records", models.ErrMalformedBundle, bundle.RecordCount, len(bundle.Records))
	}
	for day, r := range bundle.Records {
		switch {
		case r == nil:
			return fmt.Errorf("%w: day %d has no record", models.ErrMalformedBundle, day)
		case !models.ValidDay(bundle.Year, day):
			return fmt.Errorf("%w: day %d out of range", models.ErrMalformedBundle, day)
		case !r.Mood.Valid():
			return fmt.Errorf("%w: day %d has unknown mood %q", models.ErrMalformedBundle, day, r.Mood)
		case !r.HasContent():
			return fmt.Errorf("%w: day %d is empty", models.ErrMalformedBundle, day)
		}
	}
	return nil
}

// Import validates the whole bundle before the first write. If a storage
// write fails midway the previously stored values are put back.
func (js *JournalService) Import(ctx context.Context, bundle *models.ExportBundle, confirmOverwrite bool) (int, error) {
	if err := validateBundle(bundle); err != nil {
		return 0, err
	}
	if !confirmOverwrite {
		return 0, models.ErrImportNotConfirmed
	}

	days := make([]int, 0, len(bundle.Records))
	for day := range bundle.Records {
		days = append(days, day)
	}
	sort.Ints(days)

	previous := make(map[string][]byte, len(days))
	for _, day := range days {
		key := js.key(bundle.Year, day)
		data, ok, err := js.kv.Get(ctx, key)
		if err != nil {
			return 0, err
		}
		if ok {
			previous[key] = data
		} else {
			previous[key] = nil
		}
	}

	for i, day := range days {
		record := *bundle.Records[day]
		record.Year = bundle.Year
		record.Day = day
		if err := js.write(ctx, &record); err != nil {
			js.rollback(ctx, bundle.Year, days[:i], previous)
			return 0, err
		}
	}

	js.logger.Infof(providers.TypeApp, "Imported %d records into %d", len(days), bundle.Year)
	js.refreshRecordGauge(ctx, bundle.Year)
	return len(days), nil
}

func (js *JournalService) rollback(ctx context.Context, year int, written []int, previous map[string][]byte) {
	var errs []error
	for _, day := range written {
		key := js.key(year, day)
		if old := previous[key]; old != nil {
			errs = append(errs, js.kv.Set(ctx, key, old))
		} else {
			errs = append(errs, js.kv.Delete(ctx, key))
		}
	}
	if err := errors.Join(errs...); err != nil {
		js.logger.Errorf(providers.TypeApp, "Import rollback incomplete for %d: %s", year, err)
	}
}

func (js *JournalService) RandomMemory(ctx context.Context, year int) (*models.DayRecord, bool, error) {
	records, err := js.Enumerate(ctx, year)
	if err != nil || len(records) == 0 {
		return nil, false, err
	}
	days := models.NewDaySet(records)
	day, _ := days.Nth(rand.IntN(days.Count()))
	return records[day], true, nil
}

func (js *JournalService) GetTheme(ctx context.Context) (models.Theme, error) {
	data, ok, err := js.kv.Get(ctx, js.namespace+themeSuffix)
	if err != nil {
		return "", err
	}
	if !ok {
		return models.ThemeLight, nil
	}
	theme, err := models.ParseTheme(strings.TrimSpace(string(data)))
	if err != nil {
		return models.ThemeLight, nil
	}
	return theme, nil
}

func (js *JournalService) SetTheme(ctx context.Context, theme models.Theme) error {
	if _, err := models.ParseTheme(string(theme)); err != nil {
		return err
	}
	return js.kv.Set(ctx, js.namespace+themeSuffix, []byte(theme))
}

func (js *JournalService) refreshRecordGauge(ctx context.Context, year int) {
	keys, err := js.yearKeys(ctx, year)
	if err != nil {
		return
	}
	js.metrics.SetRecordsTotal(year, len(keys))
}
