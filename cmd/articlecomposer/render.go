package main

import (
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ArticleComposer/internal/domain"
	"ArticleComposer/internal/usecase"
)

const maxTitleWidth = 40

func renderProgress(s usecase.Snapshot) string {
	stages := domain.Stages()

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := table.Row{"Title"}
	for _, stage := range stages {
		header = append(header, stage.Label())
	}
	tw.AppendHeader(header)

	for _, p := range s.List() {
		row := table.Row{truncate(p.Title, maxTitleWidth)}
		for _, stage := range stages {
			row = append(row, statusCell(p.Status(stage)))
		}
		tw.AppendRow(row)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft, WidthMax: maxTitleWidth},
	})
	return tw.Render()
}

func renderSchedule(planned []usecase.PlannedArticle, loc *time.Location) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Title", "Scheduled for"})
	for i, p := range planned {
		tw.AppendRow(table.Row{i + 1, truncate(p.Request.Title, maxTitleWidth), p.ScheduledFor.In(loc).Format("Mon 2006-01-02 15:04 MST")})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func statusCell(s domain.StageStatus) string {
	switch s.State {
	case domain.StateCompleted:
		return "done"
	case domain.StateInProgress:
		return "running"
	case domain.StateError:
		if s.Message == "" {
			return "error"
		}
		return "error: " + truncate(s.Message, 30)
	default:
		return "-"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
