// Package terminal prints the timetable panels for the command line.
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kilianp07/timetable/core/chart"
	"github.com/kilianp07/timetable/core/faculty"
	"github.com/kilianp07/timetable/core/grid"
	"github.com/kilianp07/timetable/core/model"
	"github.com/kilianp07/timetable/core/workflow"
)

// barWidth is the length of the longest chart bar.
const barWidth = 40

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3")).MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e53935"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8c959f"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#36a2eb"))
)

// Render writes the master grid, the teacher roster and the workload chart
// derived from s.
func Render(w io.Writer, s workflow.Snapshot, slots []string) error {
	var sb strings.Builder
	if s.ErrorMessage != "" {
		sb.WriteString(errorStyle.Render(s.ErrorMessage))
		sb.WriteString("\n")
	}
	g := grid.Assemble(model.Weekdays, slots, s.Schedule, faculty.Build(s.Faculty))
	sb.WriteString(Grid(g))
	sb.WriteString(Roster(s.Faculty))
	sb.WriteString(Chart(chart.Adapt(s.Faculty)))
	_, err := io.WriteString(w, sb.String())
	return err
}

func styled(row, _ int) lipgloss.Style {
	if row == table.HeaderRow {
		return headerStyle
	}
	return cellStyle
}

// Grid renders the assembled grid with one row per slot.
func Grid(g grid.Grid) string {
	headers := make([]string, 0, len(g.Days)+1)
	headers = append(headers, "Time Slot")
	for _, d := range g.Days {
		headers = append(headers, string(d))
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(styled).
		Headers(headers...)
	for i, slot := range g.Slots {
		row := make([]string, 0, len(g.Days)+1)
		row = append(row, slot)
		for _, c := range g.Cells[i] {
			row = append(row, c.String())
		}
		t.Row(row...)
	}
	footer := mutedStyle.Render(fmt.Sprintf("%d of %d periods scheduled", g.Filled(), len(g.Slots)*len(g.Days)))
	return titleStyle.Render("Class-wise Master Timetable") + "\n" + t.String() + "\n" + footer + "\n"
}

// Roster renders the teacher-wise allotment in input order.
func Roster(records []model.FacultyRecord) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(styled).
		Headers("Sl No", "Teacher Initials", "Subjects Taught", "Total Periods")
	for i, r := range records {
		t.Row(strconv.Itoa(i+1), r.Name, r.Expertise.String(), strconv.Itoa(r.MaxWorkload))
	}
	return titleStyle.Render("Teacher-wise Provisional Allotment") + "\n" + t.String() + "\n"
}

// Chart renders s as horizontal bars followed by its summary.
func Chart(s chart.Series) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Faculty Workload Distribution"))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(chart.SeriesName))
	sb.WriteString("\n")

	sum := chart.Summarize(s)
	labelWidth := 0
	for _, l := range s.Labels {
		if w := lipgloss.Width(l); w > labelWidth {
			labelWidth = w
		}
	}
	for i, l := range s.Labels {
		v := s.Values[i]
		n := 0
		if sum.Max > 0 && v > 0 {
			n = v * barWidth / sum.Max
			if n == 0 {
				n = 1
			}
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(l))
		fmt.Fprintf(&sb, "%s%s %s %d\n", l, pad, barStyle.Render(strings.Repeat("█", n)), v)
	}
	fmt.Fprintf(&sb, "%s\n", mutedStyle.Render(fmt.Sprintf("teachers %d  total %d  mean %.1f  std dev %.1f  max %d",
		sum.Count, sum.Total, sum.Mean, sum.StdDev, sum.Max)))
	return sb.String()
}
