// Package grid joins a flat list of schedule entries against the fixed
// day/slot matrix of the weekly timetable.
//
// Rows follow the slot order and columns follow the day order. Every cell is
// populated: cells without a matching entry are placeholders. When several
// entries target the same day and slot, the first one in input order wins and
// the others are ignored.
package grid
