package grid

import (
	"github.com/kilianp07/timetable/core/faculty"
	"github.com/kilianp07/timetable/core/model"
)

const (
	// Placeholder is displayed for cells without a scheduled period.
	Placeholder = "—"
	// FallbackTeacher labels a period whose faculty id does not resolve.
	FallbackTeacher = "Teacher"
)

// Cell is one day/slot position of the grid.
type Cell struct {
	Day      model.Day `json:"day"`
	Slot     string    `json:"slot"`
	Assigned bool      `json:"assigned"`
	Course   string    `json:"course,omitempty"`
	Room     string    `json:"room,omitempty"`
	Teacher  string    `json:"teacher,omitempty"`
}

// String renders the cell as a single line.
func (c Cell) String() string {
	if !c.Assigned {
		return Placeholder
	}
	return c.Course + " · Room " + c.Room + " · " + c.Teacher
}

// Grid is the assembled timetable, indexed as Cells[slot][day].
type Grid struct {
	Days  []model.Day `json:"days"`
	Slots []string    `json:"slots"`
	Cells [][]Cell    `json:"cells"`
}

// At returns the cell for the given day and slot.
func (g Grid) At(day model.Day, slot string) (Cell, bool) {
	for i, s := range g.Slots {
		if s != slot {
			continue
		}
		for j, d := range g.Days {
			if d == day {
				return g.Cells[i][j], true
			}
		}
	}
	return Cell{}, false
}

// Filled returns the number of assigned cells.
func (g Grid) Filled() int {
	n := 0
	for _, row := range g.Cells {
		for _, c := range row {
			if c.Assigned {
				n++
			}
		}
	}
	return n
}

type key struct {
	day  model.Day
	slot string
}

// Assemble builds the grid for days and slots from entries, resolving teacher
// names through idx. A nil idx resolves nothing.
func Assemble(days []model.Day, slots []string, entries []model.ScheduleEntry, idx *faculty.Index) Grid {
	first := make(map[key]model.ScheduleEntry, len(entries))
	for _, e := range entries {
		k := key{day: e.Day, slot: e.TimeSlot}
		if _, seen := first[k]; seen {
			continue
		}
		first[k] = e
	}

	g := Grid{
		Days:  append([]model.Day(nil), days...),
		Slots: append([]string(nil), slots...),
		Cells: make([][]Cell, len(slots)),
	}
	for i, slot := range slots {
		row := make([]Cell, len(days))
		for j, day := range days {
			c := Cell{Day: day, Slot: slot}
			if e, ok := first[key{day: day, slot: slot}]; ok {
				c.Assigned = true
				c.Course = e.CourseCode
				c.Room = e.RoomID.String()
				c.Teacher = teacherName(idx, e.FacultyID)
			}
			row[j] = c
		}
		g.Cells[i] = row
	}
	return g
}

func teacherName(idx *faculty.Index, id model.ID) string {
	if r, ok := idx.Lookup(id); ok && r.Name != "" {
		return r.Name
	}
	return FallbackTeacher
}
