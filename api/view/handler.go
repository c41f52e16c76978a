// Package view serves the timetable page: the master grid, the teacher roster
// and the workload chart, all derived from the latest workflow snapshot.
package view

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/kilianp07/timetable/core/chart"
	"github.com/kilianp07/timetable/core/faculty"
	"github.com/kilianp07/timetable/core/grid"
	"github.com/kilianp07/timetable/core/model"
	"github.com/kilianp07/timetable/core/workflow"
	"github.com/kilianp07/timetable/infra/logger"
)

// Controller is the part of workflow.Controller the page needs.
type Controller interface {
	Snapshot() workflow.Snapshot
	Start(ctx context.Context, program string) (bool, error)
}

// Handler renders the page and accepts run triggers.
type Handler struct {
	cfg     Config
	ctrl    Controller
	program string
	tmpl    *template.Template
	log     logger.Logger
}

// NewHandler creates a handler showing ctrl's state. Triggers start a run for
// program.
func NewHandler(cfg Config, ctrl Controller, program string) *Handler {
	cfg.SetDefaults()
	tmpl := template.Must(template.New("page").Funcs(template.FuncMap{
		"placeholder": func() string { return grid.Placeholder },
	}).Parse(pageTemplate))
	return &Handler{cfg: cfg, ctrl: ctrl, program: program, tmpl: tmpl, log: logger.New("view")}
}

// Routes returns the HTTP handler of the page.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handlePage)
	mux.HandleFunc("/run", h.handleRun)
	mux.HandleFunc("/api/state", h.handleState)
	mux.HandleFunc("/api/grid", h.handleGrid)
	mux.HandleFunc("/chart", h.handleChart)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			h.log.Errorf("write healthz: %v", err)
		}
	})
	return mux
}

type gridRow struct {
	Slot  string
	Cells []grid.Cell
}

type rosterRow struct {
	SlNo         int
	Name         string
	Subjects     string
	TotalPeriods int
}

type pageData struct {
	Title     string
	Subtitle  string
	Program   string
	Tab       string
	Running   bool
	StepLabel string
	Refresh   int
	Error     string
	Days      []model.Day
	Rows      []gridRow
	Roster    []rosterRow
	Summary   chart.Summary
}

func (h *Handler) assemble(s workflow.Snapshot) grid.Grid {
	return grid.Assemble(model.Weekdays, h.cfg.Slots, s.Schedule, faculty.Build(s.Faculty))
}

func (h *Handler) pageData(s workflow.Snapshot, tab string) pageData {
	switch tab {
	case "master", "teachers", "analytics":
	default:
		tab = "master"
	}
	g := h.assemble(s)
	rows := make([]gridRow, len(g.Slots))
	for i, slot := range g.Slots {
		rows[i] = gridRow{Slot: slot, Cells: g.Cells[i]}
	}
	roster := make([]rosterRow, len(s.Faculty))
	for i, f := range s.Faculty {
		roster[i] = rosterRow{SlNo: i + 1, Name: f.Name, Subjects: f.Expertise.String(), TotalPeriods: f.MaxWorkload}
	}
	label := "Generating..."
	if s.Step != "" {
		label = "Generating... (" + s.Step + ")"
	}
	return pageData{
		Title:     h.cfg.Title,
		Subtitle:  h.cfg.Subtitle,
		Program:   h.program,
		Tab:       tab,
		Running:   s.Running(),
		StepLabel: label,
		Refresh:   h.cfg.RefreshSeconds,
		Error:     s.ErrorMessage,
		Days:      g.Days,
		Rows:      rows,
		Roster:    roster,
		Summary:   chart.Summarize(chart.Adapt(s.Faculty)),
	}
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data := h.pageData(h.ctrl.Snapshot(), r.URL.Query().Get("tab"))
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		h.log.Errorf("render page: %v", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Warnf("write page: %v", err)
	}
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	started, err := h.ctrl.Start(r.Context(), h.program)
	switch {
	case started:
		h.log.Infof("run triggered for %s", h.program)
	case errors.Is(err, workflow.ErrAlreadyRunning):
		h.log.Debugf("trigger ignored, run in progress")
	case errors.Is(err, workflow.ErrClosed):
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	case err != nil:
		h.log.Errorf("start run: %v", err)
		http.Error(w, "cannot start run", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, h.ctrl.Snapshot())
}

func (h *Handler) handleGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	g := h.assemble(h.ctrl.Snapshot())
	q := r.URL.Query()
	if !q.Has("day") && !q.Has("slot") {
		h.writeJSON(w, g)
		return
	}
	day, err := model.ParseDay(q.Get("day"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cell, ok := g.At(day, q.Get("slot"))
	if !ok {
		http.Error(w, "no such slot", http.StatusNotFound)
		return
	}
	h.writeJSON(w, cell)
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	page, err := WorkloadChartHTML(chart.Adapt(h.ctrl.Snapshot().Faculty))
	if err != nil {
		h.log.Errorf("render chart: %v", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(page); err != nil {
		h.log.Warnf("write chart: %v", err)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
