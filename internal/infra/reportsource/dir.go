// Package reportsource reads daily reports from a directory of markdown files.
package reportsource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// Ensure Dir implements domain.ReportSource.
var _ domain.ReportSource = (*Dir)(nil)

// Dir lists reports named after their date (e.g. 2025-01-15.md) in one directory.
type Dir struct {
	clock   domain.Clock
	dir     string
	pattern string
}

// NewDir returns a source for dir. pattern is a glob matched against file
// names; files without a YYYY-MM-DD in their name are ignored.
func NewDir(dir, pattern string, clock domain.Clock) *Dir {
	if pattern == "" {
		pattern = domain.DefaultLogsPattern
	}
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Dir{dir: dir, pattern: pattern, clock: clock}
}

// List returns the selected reports, oldest first.
func (d *Dir) List(_ context.Context, sel domain.Selection) ([]domain.ReportRef, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	switch sel.Mode {
	case domain.SelectDate:
		ref, ok := d.byDate(sel.Date)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoReports, sel.Date)
		}
		return []domain.ReportRef{ref}, nil

	case domain.SelectToday:
		now := sel.Now
		if now.IsZero() {
			now = d.clock.Now()
		}
		if ref, ok := d.byDate(now.Format(domain.DateLayout)); ok {
			return []domain.ReportRef{ref}, nil
		}
		all, err := d.all()
		if err != nil {
			return nil, err
		}
		return all[len(all)-1:], nil

	default:
		return d.all()
	}
}

// Read returns the raw markdown of a report.
func (d *Dir) Read(_ context.Context, ref domain.ReportRef) (string, error) {
	data, err := os.ReadFile(ref.Path)
	if err != nil {
		return "", fmt.Errorf("read report: %w", err)
	}
	return string(data), nil
}

func (d *Dir) byDate(date string) (domain.ReportRef, bool) {
	path := filepath.Join(d.dir, domain.ReportFileName(date))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return domain.ReportRef{}, false
	}
	return domain.ReportRef{Path: path, Date: date}, true
}

// all returns every dated report matching the pattern, ordered by date.
func (d *Dir) all() ([]domain.ReportRef, error) {
	if _, err := os.Stat(d.dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory %s does not exist", domain.ErrNoReports, d.dir)
		}
		return nil, fmt.Errorf("stat log directory: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(d.dir, d.pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid logs pattern %q: %w", d.pattern, err)
	}

	var refs []domain.ReportRef
	for _, path := range matches {
		date, ok := domain.ParseReportDate(path)
		if !ok {
			continue
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		refs = append(refs, domain.ReportRef{Path: path, Date: date})
	}
	if len(refs) == 0 {
		return nil, domain.ErrNoReports
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Date != refs[j].Date {
			return refs[i].Date < refs[j].Date
		}
		return refs[i].Path < refs[j].Path
	})
	return refs, nil
}
