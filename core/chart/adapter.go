// Package chart projects the faculty roster into chart series.
package chart

import (
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/timetable/core/model"
)

// SeriesName is the legend label of the workload series.
const SeriesName = "Total Periods"

// Series is an index aligned label/value pair set.
type Series struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// Adapt maps each record to a label (its name) and a value (its maximum
// workload), preserving input order. Empty input yields empty, non-nil
// slices.
func Adapt(records []model.FacultyRecord) Series {
	s := Series{
		Labels: make([]string, len(records)),
		Values: make([]int, len(records)),
	}
	for i, r := range records {
		s.Labels[i] = r.Name
		s.Values[i] = r.MaxWorkload
	}
	return s
}

// Summary describes the distribution of a workload series.
type Summary struct {
	Count  int     `json:"count"`
	Total  int     `json:"total"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Max    int     `json:"max"`
}

// Summarize computes aggregate statistics over the series values. The
// standard deviation is zero for fewer than two points.
func Summarize(s Series) Summary {
	sum := Summary{Count: len(s.Values)}
	if sum.Count == 0 {
		return sum
	}
	xs := make([]float64, len(s.Values))
	for i, v := range s.Values {
		xs[i] = float64(v)
		sum.Total += v
		if i == 0 || v > sum.Max {
			sum.Max = v
		}
	}
	if len(xs) > 1 {
		sum.Mean, sum.StdDev = stat.MeanStdDev(xs, nil)
	} else {
		sum.Mean = xs[0]
	}
	return sum
}
