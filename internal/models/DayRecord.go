package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DayRecord is the persisted entry for one (year, day) slot. Year is carried
// by the storage key, not by the stored value.
type DayRecord struct {
	Day       int       `json:"day"`
	Year      int       `json:"-"`
	Text      string    `json:"text"`
	Mood      Mood      `json:"mood"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDayRecord(year, day int, text string, mood Mood, now time.Time) *DayRecord {
	return &DayRecord{
		Day:       day,
		Year:      year,
		Text:      strings.TrimSpace(text),
		Mood:      mood,
		Timestamp: now.UTC(),
	}
}

func (r *DayRecord) HasContent() bool {
	return strings.TrimSpace(r.Text) != "" || r.Mood != MoodNone
}

// CharCount is the length of Text in Unicode code points.
func (r *DayRecord) CharCount() int {
	return utf8.RuneCountInString(r.Text)
}

func (r *DayRecord) Date(loc *time.Location) time.Time {
	return DateFromDayOfYear(r.Year, r.Day, loc)
}
