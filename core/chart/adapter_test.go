package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/timetable/core/model"
)

func TestAdaptEmpty(t *testing.T) {
	s := Adapt(nil)
	assert.NotNil(t, s.Labels)
	assert.NotNil(t, s.Values)
	assert.Empty(t, s.Labels)
	assert.Empty(t, s.Values)
}

func TestAdaptSingle(t *testing.T) {
	s := Adapt([]model.FacultyRecord{{Name: "X", MaxWorkload: 18}})
	assert.Equal(t, []string{"X"}, s.Labels)
	assert.Equal(t, []int{18}, s.Values)
}

func TestAdaptKeepsOrder(t *testing.T) {
	s := Adapt([]model.FacultyRecord{
		{Name: "C", MaxWorkload: 3},
		{Name: "A", MaxWorkload: 20},
		{Name: "B", MaxWorkload: 3},
	})
	assert.Equal(t, []string{"C", "A", "B"}, s.Labels)
	assert.Equal(t, []int{3, 20, 3}, s.Values)
}

func TestSummarize(t *testing.T) {
	sum := Summarize(Series{Labels: []string{"a", "b", "c", "d"}, Values: []int{2, 4, 4, 6}})
	assert.Equal(t, 4, sum.Count)
	assert.Equal(t, 16, sum.Total)
	assert.Equal(t, 6, sum.Max)
	assert.InDelta(t, 4.0, sum.Mean, 1e-9)
	// sample standard deviation of {2,4,4,6}
	assert.InDelta(t, math.Sqrt(8.0/3.0), sum.StdDev, 1e-9)
}

func TestSummarizeSmall(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(Adapt(nil)))
	one := Summarize(Series{Labels: []string{"x"}, Values: []int{18}})
	assert.Equal(t, Summary{Count: 1, Total: 18, Mean: 18, Max: 18}, one)
}
