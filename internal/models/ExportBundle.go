package models

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

const ExportFormatVersion = "1.0"

// ExportBundle is the downloadable backup of one year of records.
type ExportBundle struct {
	FormatVersion string             `json:"formatVersion"`
	ExportedAt    time.Time          `json:"exportedAt"`
	RecordCount   int                `json:"recordCount"`
	Year          int                `json:"year"`
	Records       map[int]*DayRecord `json:"records"`
}

// legacyExportBundle is the layout written by the first browser release.
type legacyExportBundle struct {
	Version    string             `json:"version"`
	ExportDate time.Time          `json:"exportDate"`
	TotalNotes int                `json:"totalNotes"`
	Year       int                `json:"year"`
	Notes      map[int]*DayRecord `json:"notes"`
}

func NewExportBundle(year int, records map[int]*DayRecord, exportedAt time.Time) *ExportBundle {
	return &ExportBundle{
		FormatVersion: ExportFormatVersion,
		ExportedAt:    exportedAt.UTC(),
		RecordCount:   len(records),
		Year:          year,
		Records:       records,
	}
}

// DecodeExportBundle accepts both the current and the legacy field layout.
// The format version is not checked here.
func DecodeExportBundle(data []byte) (*ExportBundle, error) {
	var probe struct {
		FormatVersion *string `json:"formatVersion"`
		Version       *string `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedBundle, err)
	}

	switch {
	case probe.FormatVersion != nil:
		var bundle ExportBundle
		if err := json.Unmarshal(data, &bundle); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedBundle, err)
		}
		return &bundle, nil
	case probe.Version != nil:
		var legacy legacyExportBundle
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedBundle, err)
		}
		return &ExportBundle{
			FormatVersion: legacy.Version,
			ExportedAt:    legacy.ExportDate,
			RecordCount:   legacy.TotalNotes,
			Year:          legacy.Year,
			Records:       legacy.Notes,
		}, nil
	default:
		return nil, fmt.Errorf("%w: missing format version", ErrMalformedBundle)
	}
}

// ExportFileName embeds the year and the export date.
func ExportFileName(year int, exportedAt time.Time) string {
	return fmt.Sprintf("ponydiary_%d_backup_%s.json", year, exportedAt.Format(time.DateOnly))
}
