package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/almanac/internal/calendar"
	"github.com/papapumpkin/almanac/internal/cpm"
	"github.com/papapumpkin/almanac/internal/dag"
	"github.com/papapumpkin/almanac/internal/project"
	"github.com/papapumpkin/almanac/internal/schedule"
)

// Gantt bar glyphs.
const (
	barFill     = "█"
	barCritical = "▓"
	barEmpty    = "·"
)

// maxBarWidth caps the Gantt column; longer projects are scaled down.
const maxBarWidth = 48

// Row is one line of a schedule report.
type Row struct {
	ID       project.ID
	Name     string
	Start    calendar.Date
	End      calendar.Date
	Workdays int
	// Slack is -1 when no critical path analysis was run.
	Slack    int
	Critical bool
}

// ScheduleRows joins tasks with their computed dates and, when entries is
// non-nil, their critical path analysis. Rows follow task input order;
// tasks the run left unscheduled keep zero dates.
func ScheduleRows(tasks []project.Task, r schedule.Result, entries []cpm.Entry, cal calendar.Calendar) []Row {
	byID := make(map[project.ID]cpm.Entry, len(entries))
	for _, e := range entries {
		byID[e.TaskID] = e
	}
	rows := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		row := Row{ID: t.ID, Name: t.Name, Slack: -1}
		if d, ok := r.Dates(t.ID); ok {
			row.Start, row.End = d.Start, d.End
			row.Workdays = cal.CountWorkdays(d.Start, d.End)
		}
		if e, ok := byID[t.ID]; ok {
			row.Slack = e.Slack
			row.Critical = e.IsCritical
		}
		rows = append(rows, row)
	}
	return rows
}

// tableStyles holds the styles for one render. With color off every style
// is plain.
type tableStyles struct {
	header   lipgloss.Style
	muted    lipgloss.Style
	critical lipgloss.Style
	bar      lipgloss.Style
	title    lipgloss.Style
}

func newTableStyles(color bool) tableStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return tableStyles{header: plain, muted: plain, critical: plain, bar: plain, title: plain}
	}
	return tableStyles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00BFFF")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#636363")),
		critical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5252")),
		bar:      lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")),
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EEEEEE")),
	}
}

// RenderSchedule renders rows as a table with a Gantt column. The Gantt
// column spans the earliest start to the latest end across all rows.
func RenderSchedule(title string, rows []Row, color bool) string {
	st := newTableStyles(color)

	var from, to calendar.Date
	for _, r := range rows {
		from = calendar.MinDate(from, r.Start)
		to = calendar.MaxDate(to, r.End)
	}
	span := 0
	if !from.IsZero() {
		span = from.DaysUntil(to) + 1
	}
	scale := 1.0
	if span > maxBarWidth {
		scale = float64(maxBarWidth) / float64(span)
	}

	header := []string{"ID", "TASK", "START", "END", "DAYS", "SPAN", "SLACK"}
	cells := make([][]string, len(rows))
	for i, r := range rows {
		slack := ""
		if r.Slack >= 0 {
			slack = fmt.Sprint(r.Slack)
		}
		cells[i] = []string{string(r.ID), r.Name, r.Start.String(), r.End.String(), days(r), spanOf(r), slack}
	}
	widths := columnWidths(header, cells)

	var sb strings.Builder
	if title != "" {
		sb.WriteString(st.title.Render(title))
		sb.WriteString("\n")
	}
	sb.WriteString(st.header.Render(joinCells(header, widths)))
	if span > 0 {
		sb.WriteString("  " + st.header.Render(from.String()+" → "+to.String()))
	}
	sb.WriteString("\n")

	for i, r := range rows {
		line := joinCells(cells[i], widths)
		switch {
		case r.Start.IsZero():
			line = st.muted.Render(line)
		case r.Critical:
			line = st.critical.Render(line)
		}
		sb.WriteString(line)
		if span > 0 && !r.Start.IsZero() {
			sb.WriteString("  " + gantt(r, from, span, scale, st))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderCritical renders a critical path analysis. chain lists the critical
// tasks in link order; names maps IDs to display names.
func RenderCritical(entries []cpm.Entry, chain []project.ID, names map[project.ID]string, mode cpm.Mode, color bool) string {
	st := newTableStyles(color)

	header := []string{"ID", "TASK", "ES", "EF", "LS", "LF", "SLACK"}
	cells := make([][]string, len(entries))
	for i, e := range entries {
		cells[i] = []string{
			string(e.TaskID), names[e.TaskID],
			e.EarlyStart.String(), e.EarlyFinish.String(),
			e.LateStart.String(), e.LateFinish.String(),
			fmt.Sprint(e.Slack),
		}
	}
	widths := columnWidths(header, cells)

	var sb strings.Builder
	sb.WriteString(st.title.Render(fmt.Sprintf("critical path (%s)", mode)))
	sb.WriteString("\n")
	sb.WriteString(st.header.Render(joinCells(header, widths)))
	sb.WriteString("\n")
	for i, e := range entries {
		line := joinCells(cells[i], widths)
		if e.IsCritical {
			line = st.critical.Render(line + " ★")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if len(chain) > 0 {
		parts := make([]string, len(chain))
		for i, id := range chain {
			parts[i] = string(id)
		}
		sb.WriteString("\n")
		sb.WriteString(st.critical.Render("chain: " + strings.Join(parts, " → ")))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderWorkstreams renders independent groups of tasks, largest first.
func RenderWorkstreams(tracks []dag.Track, names map[project.ID]string, color bool) string {
	st := newTableStyles(color)
	var sb strings.Builder
	sb.WriteString(st.title.Render(fmt.Sprintf("%d workstream(s)", len(tracks))))
	sb.WriteString("\n")
	for _, tr := range tracks {
		labels := make([]string, len(tr.NodeIDs))
		for i, id := range tr.NodeIDs {
			labels[i] = id
			if n := names[project.ID(id)]; n != "" {
				labels[i] = id + " " + st.muted.Render("("+n+")")
			}
		}
		sb.WriteString(st.header.Render(fmt.Sprintf("  #%d", tr.ID+1)))
		sb.WriteString(" " + strings.Join(labels, " → "))
		sb.WriteString("\n")
	}
	return sb.String()
}

func gantt(r Row, from calendar.Date, span int, scale float64, st tableStyles) string {
	offset := int(float64(from.DaysUntil(r.Start)) * scale)
	length := max(1, int(float64(r.Start.DaysUntil(r.End)+1)*scale))
	width := max(1, int(float64(span)*scale))
	if offset+length > width {
		length = max(1, width-offset)
	}

	glyph, style := barFill, st.bar
	if r.Critical {
		glyph, style = barCritical, st.critical
	}
	return st.muted.Render(strings.Repeat(barEmpty, offset)) +
		style.Render(strings.Repeat(glyph, length)) +
		st.muted.Render(strings.Repeat(barEmpty, max(0, width-offset-length)))
}

func days(r Row) string {
	if r.Start.IsZero() {
		return ""
	}
	return humanize.Comma(int64(r.Workdays))
}

// spanOf describes the calendar length of a row, e.g. "1 week".
func spanOf(r Row) string {
	if r.Start.IsZero() {
		return "unscheduled"
	}
	return strings.TrimSpace(humanize.RelTime(r.Start.StartOfDay(), r.End.EndOfDay(), "", ""))
}

func columnWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}
	return widths
}

func joinCells(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c + strings.Repeat(" ", widths[i]-lipgloss.Width(c))
	}
	return strings.Join(parts, "  ")
}
