package utils

import "time"

// Day tokens used in provider working-day specs, Monday first.
var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayIndex maps a three-letter day token to its Monday-based index
// (Mon=0 .. Sun=6).
func DayIndex(token string) (int, bool) {
	for i, name := range dayNames {
		if name == token {
			return i, true
		}
	}
	return 0, false
}

// DayName returns the token for a Monday-based index.
func DayName(i int) string {
	return dayNames[i]
}

// MondayIndex converts time.Weekday (Sunday=0) to the Monday-based index.
func MondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
