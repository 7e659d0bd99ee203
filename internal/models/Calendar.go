package models

import "time"

func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DayOfYear returns the 1-based ordinal of date within its own calendar year.
func DayOfYear(date time.Time) int {
	return date.YearDay()
}

// DateFromDayOfYear maps day back to a calendar date at midnight in loc.
// It is the inverse of DayOfYear for every day in 1..DaysInYear(year).
func DateFromDayOfYear(year, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.January, day, 0, 0, 0, 0, loc)
}

func ValidDay(year, day int) bool {
	return year >= 1 && day >= 1 && day <= DaysInYear(year)
}
