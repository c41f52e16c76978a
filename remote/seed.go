package remote

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/timetable/core/model"
)

// Seed is the data served by the mock service.
type Seed struct {
	Faculty    []model.FacultyRecord            `json:"faculty" yaml:"faculty"`
	Timetables map[string][]model.ScheduleEntry `json:"timetables" yaml:"timetables"`
}

// LoadSeed reads a Seed from a JSON or YAML file.
func LoadSeed(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, err
	}
	defer f.Close()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return DecodeSeed(f, ext)
}

// DecodeSeed reads a Seed from r in the given format.
func DecodeSeed(r io.Reader, format string) (Seed, error) {
	var s Seed
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&s); err != nil {
			return Seed{}, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return Seed{}, err
		}
	default:
		return Seed{}, fmt.Errorf("unsupported seed format: %s", format)
	}
	return s, nil
}

// DefaultSeed returns a small FYUP sample.
func DefaultSeed() Seed {
	fac := []model.FacultyRecord{
		{ID: model.IDFromInt(1), Name: "A. Sen", Expertise: model.Expertise{"MTH101", "MTH102"}, MaxWorkload: 18},
		{ID: model.IDFromInt(2), Name: "B. Roy", Expertise: model.Expertise{"PHY101"}, MaxWorkload: 16},
		{ID: model.IDFromInt(3), Name: "C. Das", Expertise: model.Expertise{"CHM101", "CHM102L"}, MaxWorkload: 20},
		{ID: model.IDFromInt(4), Name: "D. Paul", Expertise: model.Expertise{"ENG101"}, MaxWorkload: 12},
		{ID: model.IDFromInt(5), Name: "E. Ghosh", Expertise: model.Expertise{"CS101", "CS102L"}, MaxWorkload: 14},
	}
	fyup := []model.ScheduleEntry{
		{Day: model.Monday, TimeSlot: "9:00-10:00", CourseCode: "MTH101", FacultyID: model.IDFromInt(1), RoomID: model.IDFromInt(101)},
		{Day: model.Monday, TimeSlot: "10:00-11:00", CourseCode: "PHY101", FacultyID: model.IDFromInt(2), RoomID: model.IDFromInt(102)},
		{Day: model.Tuesday, TimeSlot: "11:00-12:00", CourseCode: "CHM101", FacultyID: model.IDFromInt(3), RoomID: model.IDFromInt(101)},
		{Day: model.Tuesday, TimeSlot: "13:00-14:00", CourseCode: "CHM102L", FacultyID: model.IDFromInt(3), RoomID: "LAB1"},
		{Day: model.Wednesday, TimeSlot: "9:00-10:00", CourseCode: "ENG101", FacultyID: model.IDFromInt(4), RoomID: model.IDFromInt(103)},
		{Day: model.Thursday, TimeSlot: "14:00-15:00", CourseCode: "CS101", FacultyID: model.IDFromInt(5), RoomID: model.IDFromInt(104)},
		{Day: model.Thursday, TimeSlot: "15:00-16:00", CourseCode: "CS102L", FacultyID: model.IDFromInt(5), RoomID: "LAB2"},
		{Day: model.Friday, TimeSlot: "10:00-11:00", CourseCode: "MTH102", FacultyID: model.IDFromInt(1), RoomID: model.IDFromInt(101)},
	}
	return Seed{Faculty: fac, Timetables: map[string][]model.ScheduleEntry{DefaultProgram: fyup}}
}
