package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ranchprice/internal/domain/models"
	repo "github.com/mamadbah2/ranchprice/internal/repository/sheets"
)

const timestampLayout = "2006-01-02 15:04"

var header = []interface{}{
	"Run", "Generated", "Ranch", "Period", "Calf", "Tag", "Breed", "Sex",
	"Weight", "Status", "Suggested Price", "Bracket", "Reason",
}

// Service exports suggestion reports into a spreadsheet tab.
type Service struct {
	repo      repo.Repository
	sheetName string
	logger    *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(repository repo.Repository, sheetName string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sheetName == "" {
		sheetName = "Suggestions"
	}
	return &Service{repo: repository, sheetName: sheetName, logger: logger}
}

// ExportReport appends one row per calf. A run that is already present in the
// sheet is skipped, so re-exporting is harmless.
func (s *Service) ExportReport(ctx context.Context, report models.SuggestionReport) error {
	if err := s.repo.EnsureSheet(ctx, s.sheetName); err != nil {
		return fmt.Errorf("prepare export tab: %w", err)
	}

	existing, err := s.repo.ReadRange(ctx, s.sheetName+"!A:A")
	if err != nil {
		return fmt.Errorf("load exported runs: %w", err)
	}

	for _, row := range existing {
		if len(row) > 0 && fmt.Sprint(row[0]) == report.RunID {
			s.logger.Debug("run already exported", zap.String("run_id", report.RunID))
			return nil
		}
	}

	rows := BuildRows(report)
	if len(existing) == 0 {
		rows = append([][]interface{}{header}, rows...)
	}

	if err := s.repo.AppendRows(ctx, s.sheetName+"!A:M", rows); err != nil {
		return fmt.Errorf("export run %s: %w", report.RunID, err)
	}

	s.logger.Info("suggestion report exported",
		zap.String("run_id", report.RunID),
		zap.String("ranch_id", report.RanchID),
		zap.Int("rows", len(report.Items)))
	return nil
}

// BuildRows renders a report as spreadsheet rows without a header.
func BuildRows(report models.SuggestionReport) [][]interface{} {
	generated := report.GeneratedAt.Format(timestampLayout)
	rows := make([][]interface{}, 0, len(report.Items))
	for _, item := range report.Items {
		rows = append(rows, []interface{}{
			report.RunID,
			generated,
			report.RanchName,
			report.PeriodLabel,
			item.Calf.ID,
			item.Calf.Tag,
			item.Calf.Breed,
			item.Calf.Sex,
			item.Calf.Weight.String(),
			string(item.Suggestion.Status),
			item.Suggestion.SuggestedPrice.String(),
			item.Suggestion.BracketLabel,
			item.Suggestion.Reason,
		})
	}
	return rows
}

// Summary renders a one-line digest of a report for notifications.
func Summary(report models.SuggestionReport) string {
	name := report.RanchName
	if name == "" {
		name = report.RanchID
	}
	period := report.PeriodLabel
	if period == "" {
		period = "no active period"
	}
	return fmt.Sprintf("Price suggestions for %s (%s, %s): %d ready, %d already priced, %d missing.",
		name, period, report.ReferenceDay, report.Ready, report.AlreadySet, report.Missing)
}

// ApplySummary renders a one-line digest of a bulk apply batch.
func ApplySummary(result models.ApplyResult) string {
	return fmt.Sprintf("Applied %d of %d suggested prices for ranch %s (%d failed, %s).",
		result.Applied, result.Attempted, result.RanchID, result.Failed,
		result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
}
