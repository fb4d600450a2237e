package main

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/yurykabanov/organizer/pkg/domain"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// renderPasses prints one row per pass; the job column is only useful when
// passes of several jobs are mixed.
func renderPasses(passes []domain.Pass, now time.Time, withJob bool) string {
	headers := []string{"Started", "Took", "Moved", "Renamed", "Overwritten", "Skipped", "Failed", "Error"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft}

	if withJob {
		headers = append([]string{"Job"}, headers...)
		aligns = append([]columnAlignment{alignLeft}, aligns...)
	}

	rows := make([][]string, 0, len(passes))
	for _, pass := range passes {
		row := []string{
			humanize.RelTime(pass.StartedAt, now, "ago", "from now"),
			passDuration(pass),
			count(pass.Moved),
			count(pass.Renamed),
			count(pass.Overwritten),
			count(pass.Skipped),
			count(pass.Failed),
			pass.Error,
		}
		if withJob {
			row = append([]string{pass.Job}, row...)
		}
		rows = append(rows, row)
	}

	return renderTable(headers, rows, aligns)
}

func renderMoves(moves []domain.Move) string {
	rows := make([][]string, 0, len(moves))
	for _, move := range moves {
		rows = append(rows, []string{move.File, move.Target, string(move.Outcome), move.Error})
	}

	return renderTable([]string{"File", "Target", "Outcome", "Error"}, rows, nil)
}

func passDuration(pass domain.Pass) string {
	if pass.FinishedAt.IsZero() || pass.FinishedAt.Before(pass.StartedAt) {
		return "-"
	}

	took := pass.FinishedAt.Sub(pass.StartedAt)
	if took < time.Second {
		return strconv.FormatInt(took.Milliseconds(), 10) + "ms"
	}

	return took.Round(time.Second).String()
}

func count(n int) string {
	return humanize.Comma(int64(n))
}
