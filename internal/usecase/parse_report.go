package usecase

import (
	"context"
	"fmt"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
	"github.com/kijins-dev/chatwork-task-generator/internal/extract"
	"github.com/kijins-dev/chatwork-task-generator/internal/logparse"
)

// ParseReportInput contains the parameters for the parse debug view.
type ParseReportInput struct {
	Path string // Report file
}

// ParseReportOutput contains the parsed report and how each line resolved.
type ParseReportOutput struct {
	Report domain.Report
	Lines  []extract.LineTrace
	Tasks  []domain.Task // What generate would extract from this report alone
	Stats  extract.Stats
}

// ParseReport is the use case for inspecting one report without side effects.
type ParseReport struct {
	roster   domain.RosterProvider
	reports  domain.ReportSource
	operator string
}

// NewParseReport creates a new ParseReport use case.
func NewParseReport(roster domain.RosterProvider, reports domain.ReportSource, operator string) *ParseReport {
	return &ParseReport{
		roster:   roster,
		reports:  reports,
		operator: operator,
	}
}

// Execute parses the report and traces every action line.
func (uc *ParseReport) Execute(ctx context.Context, in ParseReportInput) (*ParseReportOutput, error) {
	if uc.operator == "" {
		return nil, domain.ErrNoOperator
	}

	roster, err := uc.roster.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	ref := domain.ReportRef{Path: in.Path}
	ref.Date, _ = domain.ParseReportDate(in.Path)
	text, err := uc.reports.Read(ctx, ref)
	if err != nil {
		return nil, err
	}

	report := logparse.Parse(in.Path, text)
	assembler := extract.NewAssembler(roster, uc.operator)
	result := assembler.AssembleBatch([]domain.Report{report})

	return &ParseReportOutput{
		Report: report,
		Lines:  assembler.Trace(report),
		Tasks:  result.Tasks,
		Stats:  result.Stats,
	}, nil
}
