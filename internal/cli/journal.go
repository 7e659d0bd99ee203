package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"ponydiary/internal/models"
	"time"

	json "github.com/goccy/go-json"
)

type ListCmd struct {
	YearFlag
}

func (c *ListCmd) Run(ctx *Context) error {
	year := ctx.year(c.Year)
	rt, cleanup, err := ctx.open()
	if err != nil {
		return err
	}
	defer cleanup()

	records, err := rt.Journal.Enumerate(context.Background(), year)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(ctx.Out, "No entries for %d\n", year)
		return nil
	}

	days := models.NewDaySet(records).Days()
	for _, day := range days {
		r := records[day]
		fmt.Fprintf(ctx.Out, "%3d  %s  %s  %d chars\n", day, r.Date(time.Local).Format(time.DateOnly), r.Mood.Emoji(), r.CharCount())
	}
	fmt.Fprintf(ctx.Out, "%d entries\n", len(days))
	return nil
}

type StatsCmd struct {
	YearFlag
	Today string `help:"Reference date YYYY-MM-DD for the streak (defaults to now)."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	today := ctx.Now()
	if c.Today != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, c.Today, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --today %q: expected YYYY-MM-DD", c.Today)
		}
		today = parsed
	}
	year := ctx.year(c.Year)

	rt, cleanup, err := ctx.open()
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := rt.Journal.Stats(context.Background(), year, today)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "📅 %d/%d days written\n", stats.CompletedCount, models.DaysInYear(year))
	fmt.Fprintf(ctx.Out, "🔥 %d day streak\n", stats.CurrentStreak)
	fmt.Fprintf(ctx.Out, "✍️  %d characters\n", stats.TotalWordCount)
	return nil
}

type ExportCmd struct {
	YearFlag
	Output string `help:"Output file or directory (defaults to the current directory)." short:"o" type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	year := ctx.year(c.Year)
	rt, cleanup, err := ctx.open()
	if err != nil {
		return err
	}
	defer cleanup()

	bundle, err := rt.Journal.Export(context.Background(), year)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return err
	}

	path := c.Output
	name := models.ExportFileName(year, bundle.ExportedAt)
	if path == "" {
		path = name
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, name)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(ctx.Out, "✓ Exported %d entries to %s\n", bundle.RecordCount, path)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Backup file to import." type:"existingfile"`
	Yes  bool   `help:"Confirm overwriting existing entries." short:"f"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	bundle, err := models.DecodeExportBundle(data)
	if err != nil {
		return err
	}

	rt, cleanup, err := ctx.open()
	if err != nil {
		return err
	}
	defer cleanup()

	count, err := rt.Journal.Import(context.Background(), bundle, c.Yes)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(ctx.Out, "✓ Imported %d entries into %d\n", count, bundle.Year)
	return nil
}

type ClearCmd struct {
	YearFlag
	Yes bool `help:"Confirm deleting every entry of the year." short:"f"`
}

func (c *ClearCmd) Run(ctx *Context) error {
	year := ctx.year(c.Year)
	if !c.Yes {
		return fmt.Errorf("refusing to clear %d without --yes", year)
	}
	rt, cleanup, err := ctx.open()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := rt.Journal.ClearAll(context.Background(), year); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ Cleared all entries for %d\n", year)
	return nil
}

type RandomCmd struct {
	YearFlag
}

func (c *RandomCmd) Run(ctx *Context) error {
	year := ctx.year(c.Year)
	rt, cleanup, err := ctx.open()
	if err != nil {
		return err
	}
	defer cleanup()

	record, ok, err := rt.Journal.RandomMemory(context.Background(), year)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(ctx.Out, "No memories in %d yet\n", year)
		return nil
	}
	fmt.Fprint(ctx.Out, formatRecord(record))
	return nil
}

type ThemeCmd struct {
	Theme string `arg:"" optional:"" help:"Set the theme: light or dark."`
}

func (c *ThemeCmd) Run(ctx *Context) error {
	rt, cleanup, err := ctx.open()
	if err != nil {
		return err
	}
	defer cleanup()

	if c.Theme == "" {
		theme, err := rt.Journal.GetTheme(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.Out, theme)
		return nil
	}

	theme, err := models.ParseTheme(c.Theme)
	if err != nil {
		return err
	}
	if err := rt.Journal.SetTheme(context.Background(), theme); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ Theme set to %s\n", theme)
	return nil
}
