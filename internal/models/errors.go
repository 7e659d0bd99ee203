package models

import "errors"

var (
	// ErrValidation is returned when a record carries neither text nor mood, or an unknown mood.
	ErrValidation = errors.New("record must contain text or a mood")
	// ErrInvalidDay is returned for a day outside 1..DaysInYear(year) or a non-positive year.
	ErrInvalidDay         = errors.New("day is out of range for year")
	ErrEmptyExport        = errors.New("no records to export")
	ErrVersionMismatch    = errors.New("unsupported export format version")
	ErrMalformedBundle    = errors.New("malformed export bundle")
	ErrImportNotConfirmed = errors.New("import requires overwrite confirmation")
	ErrInvalidTheme       = errors.New("theme must be dark or light")
)
