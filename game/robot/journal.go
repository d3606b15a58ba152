package robot

import (
	"fmt"
	"time"
)

// ClockLayout is the wall-clock format used when an entry is displayed.
const ClockLayout = "15:04:05"

// Entry is one journal record.
type Entry struct {
	Time    time.Time
	Message string
}

// String formats the entry as "[HH:MM:SS] message".
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.Time.Format(ClockLayout), e.Message)
}

// FormatJournal renders every entry with String.
func FormatJournal(entries []Entry) []string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return lines
}
