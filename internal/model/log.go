package model

import "fmt"

// LogType classifies a console log entry.
type LogType string

const (
	LogSystem   LogType = "system"
	LogAnalysis LogType = "analysis"
	LogTrade    LogType = "trade"
	LogError    LogType = "error"
	LogWarning  LogType = "warning"
)

// FilterAll shows every log type.
const FilterAll = "all"

// LogEntry is one line of the console log.
type LogEntry struct {
	Time string  `json:"time"` // HH:MM:SS
	Text string  `json:"text"`
	Type LogType `json:"type"`
}

// Matches reports whether the entry is visible under filter.
func (e LogEntry) Matches(filter string) bool {
	return filter == FilterAll || filter == string(e.Type)
}

// ParseLogFilter validates a filter value ("all" or a log type).
func ParseLogFilter(s string) (string, error) {
	switch s {
	case FilterAll, string(LogSystem), string(LogAnalysis), string(LogTrade), string(LogError), string(LogWarning):
		return s, nil
	}
	return "", &ConfigError{Field: "log_filter", Reason: fmt.Sprintf("unknown filter %q", s)}
}
