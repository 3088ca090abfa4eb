package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ranchprice/internal/domain/models"
	"github.com/mamadbah2/ranchprice/internal/pricing"
	"github.com/mamadbah2/ranchprice/internal/service/suggestions"
)

// SuggestionService describes the operations the HTTP layer can perform.
type SuggestionService interface {
	Preview(ctx context.Context, ranchID string) (*models.SuggestionReport, error)
	ApplyOne(ctx context.Context, ranchID, calfID string) (*models.CalfSuggestion, error)
	ApplyAllReady(ctx context.Context, ranchID string) (*models.ApplyResult, error)
	ActivePeriod(ctx context.Context, ranchID string, ref time.Time) (*models.PricePeriod, error)
	Brackets(ctx context.Context, ranchID string) ([]models.WeightBracketColumn, error)
	ReplaceBrackets(ctx context.Context, ranchID string, raw []models.RawWeightBracket) ([]models.WeightBracketColumn, error)
	SavePeriod(ctx context.Context, ranchID string, period models.PricePeriod) ([]models.PricePeriod, error)
	History(ctx context.Context, ranchID string, limit int64) ([]models.SuggestionReport, error)
}

// SuggestionHandler exposes price suggestions over HTTP.
type SuggestionHandler struct {
	svc    SuggestionService
	logger *zap.Logger
}

// NewSuggestionHandler constructs the HTTP handler adapter.
func NewSuggestionHandler(svc SuggestionService, logger *zap.Logger) *SuggestionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionHandler{svc: svc, logger: logger}
}

// List returns the suggestion report of a ranch, optionally filtered by
// ?status=ready|missing|already_set.
func (h *SuggestionHandler) List(c *gin.Context) {
	report, err := h.svc.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "failed computing suggestions", err)
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := make([]models.CalfSuggestion, 0, len(report.Items))
		for _, item := range report.Items {
			if string(item.Suggestion.Status) == status {
				filtered = append(filtered, item)
			}
		}
		report.Items = filtered
	}

	c.JSON(http.StatusOK, report)
}

// ApplyAll applies every ready suggestion of the ranch.
func (h *SuggestionHandler) ApplyAll(c *gin.Context) {
	result, err := h.svc.ApplyAllReady(c.Request.Context(), c.Param("id"))
	if err != nil && result == nil {
		h.fail(c, "failed applying suggestions", err)
		return
	}
	if err != nil {
		h.logger.Warn("apply batch interrupted", zap.Error(err))
	}

	c.JSON(http.StatusOK, result)
}

// ApplyOne applies the ready suggestion of a single calf.
func (h *SuggestionHandler) ApplyOne(c *gin.Context) {
	item, err := h.svc.ApplyOne(c.Request.Context(), c.Param("id"), c.Param("calfId"))
	if errors.Is(err, suggestions.ErrNoReadySuggestion) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "suggestion": item})
		return
	}
	if err != nil {
		h.fail(c, "failed applying suggestion", err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// ActivePeriod resolves the period in force on ?date=YYYY-MM-DD (default today).
func (h *SuggestionHandler) ActivePeriod(c *gin.Context) {
	var ref time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(pricing.DateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		ref = parsed
	}

	period, err := h.svc.ActivePeriod(c.Request.Context(), c.Param("id"), ref)
	if err != nil {
		h.fail(c, "failed resolving active period", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": period})
}

// Brackets returns the normalized weight brackets of a ranch.
func (h *SuggestionHandler) Brackets(c *gin.Context) {
	cols, err := h.svc.Brackets(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "failed loading brackets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brackets": cols})
}

// ReplaceBrackets stores a new bracket configuration.
func (h *SuggestionHandler) ReplaceBrackets(c *gin.Context) {
	var req struct {
		Brackets []models.RawWeightBracket `json:"brackets"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid brackets payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cols, err := h.svc.ReplaceBrackets(c.Request.Context(), c.Param("id"), req.Brackets)
	if err != nil {
		h.fail(c, "failed replacing brackets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brackets": cols})
}

// SavePeriod inserts or replaces a price period.
func (h *SuggestionHandler) SavePeriod(c *gin.Context) {
	var period models.PricePeriod
	if err := c.ShouldBindJSON(&period); err != nil {
		h.logger.Warn("invalid period payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if period.StartDate != "" && pricing.NormalizeDate(period.StartDate) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be YYYY-MM-DD"})
		return
	}

	periods, err := h.svc.SavePeriod(c.Request.Context(), c.Param("id"), period)
	if err != nil {
		h.fail(c, "failed saving period", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pricePeriods": periods})
}

// History lists recorded suggestion passes, ?limit=N (default 10).
func (h *SuggestionHandler) History(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	reports, err := h.svc.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.fail(c, "failed loading history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *SuggestionHandler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, suggestions.ErrRanchNotFound), errors.Is(err, suggestions.ErrCalfNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, suggestions.ErrHistoryDisabled):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	default:
		h.logger.Error(msg, zap.String("ranch_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	}
}
