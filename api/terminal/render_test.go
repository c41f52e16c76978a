package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/timetable/core/chart"
	"github.com/kilianp07/timetable/core/grid"
	"github.com/kilianp07/timetable/core/model"
	"github.com/kilianp07/timetable/core/workflow"
)

func TestRender(t *testing.T) {
	snap := workflow.Snapshot{
		Phase: workflow.PhaseSucceeded,
		Schedule: []model.ScheduleEntry{
			{Day: model.Monday, TimeSlot: "9:00-10:00", CourseCode: "MTH101", FacultyID: "1", RoomID: "101"},
			{Day: model.Friday, TimeSlot: "10:00-11:00", CourseCode: "ENG101", FacultyID: "7", RoomID: "103"},
		},
		Faculty: []model.FacultyRecord{
			{ID: "1", Name: "A. Sen", Expertise: model.Expertise{"MTH101"}, MaxWorkload: 18},
			{ID: "2", Name: "B. Roy", Expertise: model.Expertise{"PHY101", "PHY102"}, MaxWorkload: 9},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, snap, []string{"9:00-10:00", "10:00-11:00"}))
	out := buf.String()

	assert.Contains(t, out, "Class-wise Master Timetable")
	assert.Contains(t, out, "MTH101 · Room 101 · A. Sen")
	assert.Contains(t, out, "ENG101 · Room 103 · "+grid.FallbackTeacher)
	assert.Equal(t, 8, strings.Count(out, grid.Placeholder))
	assert.Contains(t, out, "2 of 10 periods scheduled")
	assert.Contains(t, out, "PHY101, PHY102")
	assert.Contains(t, out, "total 27")
	assert.NotContains(t, out, workflow.FailureMessage)
}

func TestRenderFailure(t *testing.T) {
	var buf bytes.Buffer
	snap := workflow.Snapshot{Phase: workflow.PhaseFailed, ErrorMessage: workflow.FailureMessage}
	require.NoError(t, Render(&buf, snap, model.DefaultSlots))
	assert.Contains(t, buf.String(), workflow.FailureMessage)
}

func TestChartBars(t *testing.T) {
	out := Chart(chart.Series{Labels: []string{"A", "B", "C"}, Values: []int{20, 10, 0}})
	lines := strings.Split(out, "\n")
	var bars []string
	for _, l := range lines {
		if strings.HasPrefix(l, "A ") || strings.HasPrefix(l, "B ") || strings.HasPrefix(l, "C ") {
			bars = append(bars, l)
		}
	}
	require.Len(t, bars, 3)
	assert.Equal(t, barWidth, strings.Count(bars[0], "█"))
	assert.Equal(t, barWidth/2, strings.Count(bars[1], "█"))
	assert.Equal(t, 0, strings.Count(bars[2], "█"))
}

func TestChartEmpty(t *testing.T) {
	out := Chart(chart.Adapt(nil))
	assert.Contains(t, out, "teachers 0  total 0")
}
