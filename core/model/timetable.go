package model

import "fmt"

// Day is a weekday code used by the timetable service.
type Day string

const (
	Monday    Day = "Mon"
	Tuesday   Day = "Tue"
	Wednesday Day = "Wed"
	Thursday  Day = "Thu"
	Friday    Day = "Fri"
)

// Weekdays is the fixed, ordered set of teaching days.
var Weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// DefaultSlots are the teaching periods of a day in display order.
var DefaultSlots = []string{
	"9:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"13:00-14:00",
	"14:00-15:00",
	"15:00-16:00",
}

// Valid reports whether d is one of the Weekdays.
func (d Day) Valid() bool {
	for _, w := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// ParseDay converts a weekday code into a Day.
func ParseDay(s string) (Day, error) {
	d := Day(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown day %q", s)
	}
	return d, nil
}

// ScheduleEntry is one scheduled teaching period.
type ScheduleEntry struct {
	Day        Day    `json:"day" yaml:"day"`
	TimeSlot   string `json:"time_slot" yaml:"time_slot"`
	CourseCode string `json:"course_code" yaml:"course_code"`
	FacultyID  ID     `json:"faculty_id" yaml:"faculty_id"`
	RoomID     ID     `json:"room_id" yaml:"room_id"`
}

// FacultyRecord describes one teacher.
type FacultyRecord struct {
	ID          ID        `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Expertise   Expertise `json:"expertise" yaml:"expertise"`
	MaxWorkload int       `json:"max_workload" yaml:"max_workload"`
}
