package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"gitlab.com/nextmod/nextmod/internal/catalog"
	"gitlab.com/nextmod/nextmod/internal/config"
	"gitlab.com/nextmod/nextmod/internal/forge"
	"gitlab.com/nextmod/nextmod/internal/render"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	Source      string `help:"Override source.type (local|gitlab|github|remotes)"`
	Concurrency int    `help:"Override source.concurrency"`
}

func (l *ListCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, overrides{Source: l.Source, Concurrency: l.Concurrency})
	if err != nil {
		return err
	}
	ctx, err := setupLogging(context.Background(), g, cfg, root.Verbose)
	if err != nil {
		return err
	}
	return RunList(ctx, cfg, os.Stdout)
}

// RunList loads every mod of the configured source and prints one row per mod.
func RunList(ctx context.Context, cfg *config.Config, w io.Writer) error {
	src, release, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	mods, err := catalog.Load(ctx, src, catalog.LoadOptions{Concurrency: cfg.Source.Concurrency})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w, modTable(mods))
	_, _ = fmt.Fprintf(w, "%d mods from %s\n", len(mods), src.Name())
	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func modTable(mods []catalog.Mod) *table.Table {
	rows := make([][]string, 0, len(mods))
	for _, m := range mods {
		popularity := "-"
		if m.Popularity != forge.UnknownPopularity {
			popularity = strconv.Itoa(m.Popularity)
		}
		rows = append(rows, []string{
			m.ID,
			m.Info.Name,
			m.Info.Category.Name,
			popularity,
			strconv.Itoa(m.FileCount()),
			render.HumanBytes(m.DataFilesSize),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "CATEGORY", "STARS", "FILES", "SIZE").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
