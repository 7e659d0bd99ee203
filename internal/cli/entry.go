package cli

import (
	"context"
	"fmt"
	"ponydiary/internal/models"
	"strings"
)

type PutCmd struct {
	YearFlag
	Day  string   `arg:"" help:"Day of year (1-366) or date YYYY-MM-DD."`
	Text []string `arg:"" optional:"" help:"Entry text."`
	Mood string   `help:"Mood: happy, calm, sad, excited, love." short:"m"`
}

func (c *PutCmd) Run(ctx *Context) error {
	year, day, err := resolveDay(c.Day, ctx.year(c.Year))
	if err != nil {
		return err
	}
	mood, err := models.ParseMood(c.Mood)
	if err != nil {
		return err
	}

	rt, cleanup, err := ctx.open()
	if err != nil {
		return err
	}
	defer cleanup()

	record, err := rt.Journal.Put(context.Background(), year, day, strings.Join(c.Text, " "), mood)
	if err != nil {
		return fmt.Errorf("failed to save day %d: %w", day, err)
	}
	fmt.Fprintf(ctx.Out, "✓ Saved %d/%d %s\n", year, record.Day, record.Mood.Emoji())
	return nil
}

type GetCmd struct {
	YearFlag
	Day string `arg:"" help:"Day of year (1-366) or date YYYY-MM-DD."`
}

func (c *GetCmd) Run(ctx *Context) error {
	year, day, err := resolveDay(c.Day, ctx.year(c.Year))
	if err != nil {
		return err
	}
	rt, cleanup, err := ctx.open()
	if err != nil {
		return err
	}
	defer cleanup()

	record, ok, err := rt.Journal.Get(context.Background(), year, day)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(ctx.Out, "No entry for %d/%d\n", year, day)
		return nil
	}
	fmt.Fprint(ctx.Out, formatRecord(record))
	return nil
}

type DeleteCmd struct {
	YearFlag
	Day string `arg:"" help:"Day of year (1-366) or date YYYY-MM-DD."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	year, day, err := resolveDay(c.Day, ctx.year(c.Year))
	if err != nil {
		return err
	}
	rt, cleanup, err := ctx.open()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := rt.Journal.Delete(context.Background(), year, day); err != nil {
		return fmt.Errorf("failed to delete day %d: %w", day, err)
	}
	fmt.Fprintf(ctx.Out, "✓ Deleted %d/%d\n", year, day)
	return nil
}
