package view

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/timetable/core/chart"
)

// WorkloadChartHTML renders s as a standalone bar chart page.
func WorkloadChartHTML(s chart.Series) ([]byte, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Faculty Workload", Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Faculty Workload Distribution"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Teacher"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Periods"}),
	)

	data := make([]opts.BarData, len(s.Values))
	for i, v := range s.Values {
		data[i] = opts.BarData{Value: v}
	}
	bar.SetXAxis(s.Labels).AddSeries(chart.SeriesName, data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "rgba(54, 162, 235, 0.8)"}))

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %v", err)
	}
	return buf.Bytes(), nil
}
