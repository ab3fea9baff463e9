package core

import "strings"

// Months is the fixed calendar column order of the dues matrix.
// It is a hardcoded constant on purpose: a string sort would put
// "April" before "Januari".
var Months = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// MonthIndex returns the 0-based calendar position of a month label,
// or -1 when the label is not one of Months. Matching is
// case-insensitive because labels come from an external spreadsheet.
func MonthIndex(label string) int {
	label = strings.TrimSpace(label)
	for i, m := range Months {
		if strings.EqualFold(m, label) {
			return i
		}
	}
	return -1
}
