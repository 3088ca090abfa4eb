package suggestions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/ranchprice/internal/domain/models"
	"github.com/mamadbah2/ranchprice/internal/pricing"
	"github.com/mamadbah2/ranchprice/internal/service/reporting"
	"github.com/mamadbah2/ranchprice/pkg/clients/ranchapi"
)

var (
	// ErrRanchNotFound indicates the backend does not know the ranch.
	ErrRanchNotFound = errors.New("ranch not found")
	// ErrCalfNotFound indicates the calf is not in the ranch inventory.
	ErrCalfNotFound = errors.New("calf not found in ranch inventory")
	// ErrNoReadySuggestion indicates the calf has no price to apply.
	ErrNoReadySuggestion = errors.New("no ready suggestion for calf")
	// ErrHistoryDisabled indicates no recorder is configured.
	ErrHistoryDisabled = errors.New("suggestion history is not configured")
)

// Recorder persists suggestion passes and apply batches.
type Recorder interface {
	SaveSuggestionReport(ctx context.Context, report models.SuggestionReport) error
	SaveApplyResult(ctx context.Context, result models.ApplyResult) error
	RecentReports(ctx context.Context, ranchID string, limit int64) ([]models.SuggestionReport, error)
}

// Exporter publishes a suggestion report outside the service.
type Exporter interface {
	ExportReport(ctx context.Context, report models.SuggestionReport) error
}

// Notifier delivers short operator notifications.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Options carries the optional collaborators of the service.
type Options struct {
	Location *time.Location
	Recorder Recorder
	Exporter Exporter
	Notifier Notifier
}

// Service computes and applies purchase price suggestions for a ranch.
type Service struct {
	client   ranchapi.Client
	location *time.Location
	recorder Recorder
	exporter Exporter
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewService wires a suggestion service around the ranch backend client.
func NewService(client ranchapi.Client, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		client:   client,
		location: loc,
		recorder: opts.Recorder,
		exporter: opts.Exporter,
		notifier: opts.Notifier,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Preview computes one suggestion per calf in the ranch inventory. Brackets
// and the active period are resolved once and shared by every calf.
func (s *Service) Preview(ctx context.Context, ranchID string) (*models.SuggestionReport, error) {
	ranch, err := s.loadRanch(ctx, ranchID)
	if err != nil {
		return nil, err
	}

	calves, err := s.client.ListCalves(ctx, ranchID)
	if err != nil {
		return nil, s.translate(err, "load calves")
	}

	report := s.buildReport(ranch, calves, s.now().In(s.location))
	s.logger.Debug("suggestions computed",
		zap.String("ranch_id", ranchID),
		zap.String("period", report.PeriodKey),
		zap.Int("calves", len(calves)),
		zap.Int("ready", report.Ready),
		zap.Int("missing", report.Missing))

	return report, nil
}

// Snapshot computes suggestions, records and exports them, optionally
// applies every ready one, and notifies operators of the outcome.
func (s *Service) Snapshot(ctx context.Context, ranchID string, autoApply bool) (*models.SuggestionReport, error) {
	report, err := s.Preview(ctx, ranchID)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		if err := s.recorder.SaveSuggestionReport(ctx, *report); err != nil {
			s.logger.Error("failed to record suggestion report", zap.String("ranch_id", ranchID), zap.Error(err))
		}
	}
	if s.exporter != nil {
		if err := s.exporter.ExportReport(ctx, *report); err != nil {
			s.logger.Error("failed to export suggestion report", zap.String("ranch_id", ranchID), zap.Error(err))
		}
	}

	if autoApply && report.Ready > 0 {
		if _, err := s.applyReady(ctx, report); err != nil {
			return report, err
		}
		return report, nil
	}

	s.notify(ctx, reporting.Summary(*report))
	return report, nil
}

// ApplyOne writes the ready suggestion of a single calf to the backend.
func (s *Service) ApplyOne(ctx context.Context, ranchID, calfID string) (*models.CalfSuggestion, error) {
	report, err := s.Preview(ctx, ranchID)
	if err != nil {
		return nil, err
	}

	for i := range report.Items {
		item := report.Items[i]
		if item.Calf.ID != calfID {
			continue
		}
		if item.Suggestion.Status != models.StatusReady {
			return &item, fmt.Errorf("%w: %s", ErrNoReadySuggestion, item.Suggestion.Reason)
		}
		if err := s.client.SetPurchasePrice(ctx, calfID, item.Suggestion.SuggestedPrice.Value); err != nil {
			return &item, fmt.Errorf("apply price to calf %s: %w", calfID, err)
		}
		s.logger.Info("suggested price applied",
			zap.String("ranch_id", ranchID),
			zap.String("calf_id", calfID),
			zap.Float64("price", item.Suggestion.SuggestedPrice.Value))
		return &item, nil
	}

	return nil, ErrCalfNotFound
}

// ApplyAllReady applies every ready suggestion of the ranch one request at a
// time. Individual failures are counted and do not stop the batch.
func (s *Service) ApplyAllReady(ctx context.Context, ranchID string) (*models.ApplyResult, error) {
	report, err := s.Preview(ctx, ranchID)
	if err != nil {
		return nil, err
	}
	return s.applyReady(ctx, report)
}

func (s *Service) applyReady(ctx context.Context, report *models.SuggestionReport) (*models.ApplyResult, error) {
	result := &models.ApplyResult{
		BatchID:   s.newID(),
		RanchID:   report.RanchID,
		StartedAt: s.now(),
	}

	var ctxErr error
	for _, item := range report.Items {
		if item.Suggestion.Status != models.StatusReady {
			continue
		}
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}

		result.Attempted++
		if err := s.client.SetPurchasePrice(ctx, item.Calf.ID, item.Suggestion.SuggestedPrice.Value); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, models.ApplyFailure{CalfID: item.Calf.ID, Error: err.Error()})
			s.logger.Warn("failed to apply suggested price",
				zap.String("ranch_id", report.RanchID),
				zap.String("calf_id", item.Calf.ID),
				zap.Error(err))
			continue
		}
		result.Applied++
	}
	result.FinishedAt = s.now()

	s.logger.Info("apply batch finished",
		zap.String("batch_id", result.BatchID),
		zap.String("ranch_id", result.RanchID),
		zap.Int("applied", result.Applied),
		zap.Int("failed", result.Failed))

	if s.recorder != nil {
		// Record the batch even when the request was cancelled mid-way.
		if err := s.recorder.SaveApplyResult(context.WithoutCancel(ctx), *result); err != nil {
			s.logger.Error("failed to record apply batch", zap.String("batch_id", result.BatchID), zap.Error(err))
		}
	}
	s.notify(context.WithoutCancel(ctx), reporting.ApplySummary(*result))

	if ctxErr != nil {
		return result, fmt.Errorf("apply batch interrupted: %w", ctxErr)
	}
	return result, nil
}

// ActivePeriod resolves the period in force on ref, or today when ref is zero.
func (s *Service) ActivePeriod(ctx context.Context, ranchID string, ref time.Time) (*models.PricePeriod, error) {
	ranch, err := s.loadRanch(ctx, ranchID)
	if err != nil {
		return nil, err
	}
	if ref.IsZero() {
		ref = s.now().In(s.location)
	}
	return pricing.ResolveActive(ranch.PricePeriods, ref), nil
}

// Brackets returns the ranch's normalized weight brackets.
func (s *Service) Brackets(ctx context.Context, ranchID string) ([]models.WeightBracketColumn, error) {
	ranch, err := s.loadRanch(ctx, ranchID)
	if err != nil {
		return nil, err
	}
	return pricing.NormalizeBrackets(ranch.WeightCategories), nil
}

// ReplaceBrackets normalizes and stores a new bracket configuration.
func (s *Service) ReplaceBrackets(ctx context.Context, ranchID string, raw []models.RawWeightBracket) ([]models.WeightBracketColumn, error) {
	columns := pricing.NormalizeBrackets(raw)
	if err := s.client.UpdateWeightCategories(ctx, ranchID, pricing.ToRawBrackets(columns)); err != nil {
		return nil, s.translate(err, "update weight categories")
	}
	s.logger.Info("weight brackets replaced", zap.String("ranch_id", ranchID), zap.Int("brackets", len(columns)))
	return columns, nil
}

// SavePeriod inserts or replaces a price period and stores the re-chained list.
func (s *Service) SavePeriod(ctx context.Context, ranchID string, period models.PricePeriod) ([]models.PricePeriod, error) {
	ranch, err := s.loadRanch(ctx, ranchID)
	if err != nil {
		return nil, err
	}

	periods := pricing.InsertPeriod(ranch.PricePeriods, period)
	if err := s.client.UpdatePricePeriods(ctx, ranchID, periods); err != nil {
		return nil, s.translate(err, "update price periods")
	}
	s.logger.Info("price period saved", zap.String("ranch_id", ranchID), zap.Int("periods", len(periods)))
	return periods, nil
}

// History lists recent recorded suggestion passes for a ranch.
func (s *Service) History(ctx context.Context, ranchID string, limit int64) ([]models.SuggestionReport, error) {
	if s.recorder == nil {
		return nil, ErrHistoryDisabled
	}
	return s.recorder.RecentReports(ctx, ranchID, limit)
}

func (s *Service) loadRanch(ctx context.Context, ranchID string) (*models.Ranch, error) {
	ranch, err := s.client.GetRanch(ctx, ranchID)
	if err != nil {
		return nil, s.translate(err, "load ranch")
	}
	return ranch, nil
}

func (s *Service) translate(err error, action string) error {
	if errors.Is(err, ranchapi.ErrNotFound) {
		return ErrRanchNotFound
	}
	return fmt.Errorf("%s: %w", action, err)
}

func (s *Service) buildReport(ranch *models.Ranch, calves []models.Calf, now time.Time) *models.SuggestionReport {
	columns := pricing.NormalizeBrackets(ranch.WeightCategories)
	active := pricing.ResolveActive(ranch.PricePeriods, now)

	report := &models.SuggestionReport{
		RunID:        s.newID(),
		RanchID:      ranch.ID,
		RanchName:    ranch.Name,
		ReferenceDay: now.Format(pricing.DateLayout),
		Items:        make([]models.CalfSuggestion, 0, len(calves)),
		GeneratedAt:  now,
	}
	if active != nil {
		report.PeriodKey = active.Key
		report.PeriodLabel = active.Label
	}

	for _, calf := range calves {
		suggestion := pricing.Suggest(calf, active, columns)
		switch suggestion.Status {
		case models.StatusReady:
			report.Ready++
		case models.StatusAlreadySet:
			report.AlreadySet++
		default:
			report.Missing++
		}
		report.Items = append(report.Items, models.CalfSuggestion{Calf: calf, Suggestion: suggestion})
	}

	return report
}

func (s *Service) notify(ctx context.Context, message string) {
	if s.notifier == nil || message == "" {
		return
	}
	if err := s.notifier.Notify(ctx, message); err != nil {
		s.logger.Warn("failed to send notification", zap.Error(err))
	}
}
