package cli

import (
	"fmt"
	"io"
	"ponydiary/internal"
	"ponydiary/internal/models"
	"ponydiary/internal/structures"
	"strconv"
	"strings"
	"time"
)

// RuntimeFactory opens the journal and returns a cleanup that flushes and closes it.
type RuntimeFactory func(flags *structures.CliFlags) (*internal.Runtime, func(), error)

// AppFactory builds the HTTP application.
type AppFactory func(flags *structures.CliFlags) (*internal.App, func(), error)

type Context struct {
	Flags   *structures.CliFlags
	Out     io.Writer
	Runtime RuntimeFactory
	App     AppFactory
	Now     func() time.Time
}

func (c *Context) open() (*internal.Runtime, func(), error) {
	rt, cleanup, err := c.Runtime(c.Flags)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return rt, cleanup, nil
}

func (c *Context) year(flag int) int {
	if flag > 0 {
		return flag
	}
	return c.Now().Year()
}

// YearFlag selects the journal year; zero means the current year.
type YearFlag struct {
	Year int `help:"Journal year (defaults to the current year)." short:"y"`
}

// resolveDay accepts either a day-of-year number or a YYYY-MM-DD date. A date
// overrides the year.
func resolveDay(raw string, year int) (int, int, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "-") {
		date, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
		}
		return date.Year(), models.DayOfYear(date), nil
	}
	day, err := strconv.Atoi(raw)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid day %q: expected a day number or YYYY-MM-DD", raw)
	}
	return year, day, nil
}

func formatRecord(record *models.DayRecord) string {
	date := record.Date(time.Local).Format("Mon Jan 2 2006")
	return fmt.Sprintf("%s Day %d (%s)\n%s\n", record.Mood.Emoji(), record.Day, date, record.Text)
}
