package domain

import (
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFileChars = strings.NewReplacer(
	"*", "_", "/", "_", `\`, "_", ":", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// SafeFileName replaces characters that are not allowed in file names.
func SafeFileName(name string) string {
	return unsafeFileChars.Replace(name)
}

// AssigneeFilePath returns the per-assignee markdown path.
// Format: <dir>/<assignee>_タスク.md
func AssigneeFilePath(dir, assignee string) string {
	return filepath.Join(dir, SafeFileName(assignee)+"_タスク.md")
}

// TeamFilePath returns the team list markdown path.
func TeamFilePath(dir string) string {
	return filepath.Join(dir, "チームタスク一覧.md")
}

// DailyReportFilePath returns the daily report markdown path.
// Format: <dir>/タスクレポート_<date>.md
func DailyReportFilePath(dir, date string) string {
	return filepath.Join(dir, "タスクレポート_"+SafeFileName(date)+".md")
}

// ReportFileName returns the report file name for a date.
// Format: <date>.md
func ReportFileName(date string) string {
	return date + ".md"
}

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// DateFromIdentifier extracts YYYY-MM-DD from a report path's base name.
// Returns the identifier unchanged if it carries no date.
func DateFromIdentifier(identifier string) string {
	base := strings.TrimSuffix(filepath.Base(identifier), ".md")
	if d := datePattern.FindString(base); d != "" {
		return d
	}
	return identifier
}

// ParseReportDate returns the date in a report path's base name.
// Returns false if the name carries no date.
func ParseReportDate(path string) (string, bool) {
	base := strings.TrimSuffix(filepath.Base(path), ".md")
	d := datePattern.FindString(base)
	return d, d != ""
}
