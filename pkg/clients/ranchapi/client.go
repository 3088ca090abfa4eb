package ranchapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/ranchprice/internal/config"
	"github.com/mamadbah2/ranchprice/internal/domain/models"
)

// ErrNotFound is returned when the backend answers 404.
var ErrNotFound = errors.New("resource not found")

// Client exposes the ranch backend operations used by the pricing service.
type Client interface {
	GetRanch(ctx context.Context, ranchID string) (*models.Ranch, error)
	ListCalves(ctx context.Context, ranchID string) ([]models.Calf, error)
	SetPurchasePrice(ctx context.Context, calfID string, price float64) error
	UpdateWeightCategories(ctx context.Context, ranchID string, categories []models.RawWeightBracket) error
	UpdatePricePeriods(ctx context.Context, ranchID string, periods []models.PricePeriod) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a backend client authenticated with a bearer token.
func NewClient(cfg config.RanchAPIConfig) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if cfg.Token != "" {
		restyClient.SetAuthToken(cfg.Token)
	}

	return &APIClient{httpClient: restyClient}
}

// apiError is the backend's JSON error body.
type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// calvesEnvelope covers backends that wrap lists as {"calves": [...]}.
type calvesEnvelope struct {
	Calves []models.Calf `json:"calves"`
}

// GetRanch fetches one ranch with its bracket and period configuration.
func (c *APIClient) GetRanch(ctx context.Context, ranchID string) (*models.Ranch, error) {
	result := new(models.Ranch)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", ranchID).
		SetResult(result).
		SetError(apiErr).
		Get("/ranches/{id}")
	if err != nil {
		return nil, fmt.Errorf("get ranch %s: %w", ranchID, err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, fmt.Errorf("get ranch %s: %w", ranchID, err)
	}
	if result.ID == "" {
		result.ID = ranchID
	}

	return result, nil
}

// ListCalves fetches the calf inventory of a ranch.
func (c *APIClient) ListCalves(ctx context.Context, ranchID string) ([]models.Calf, error) {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("ranchId", ranchID).
		SetError(apiErr).
		Get("/calves/inventory/{ranchId}")
	if err != nil {
		return nil, fmt.Errorf("list calves for ranch %s: %w", ranchID, err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, fmt.Errorf("list calves for ranch %s: %w", ranchID, err)
	}

	calves, err := decodeCalves(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("decode calves for ranch %s: %w", ranchID, err)
	}
	return calves, nil
}

// SetPurchasePrice writes an accepted price onto a calf record.
func (c *APIClient) SetPurchasePrice(ctx context.Context, calfID string, price float64) error {
	return c.patch(ctx, "/calves/{id}", calfID, map[string]any{"purchasePrice": price})
}

// UpdateWeightCategories replaces a ranch's bracket configuration. The backend
// propagates it to every ranch in the same state.
func (c *APIClient) UpdateWeightCategories(ctx context.Context, ranchID string, categories []models.RawWeightBracket) error {
	return c.patch(ctx, "/ranches/{id}", ranchID, map[string]any{"weightCategories": categories})
}

// UpdatePricePeriods replaces a ranch's price periods.
func (c *APIClient) UpdatePricePeriods(ctx context.Context, ranchID string, periods []models.PricePeriod) error {
	return c.patch(ctx, "/ranches/{id}", ranchID, map[string]any{"pricePeriods": periods})
}

func (c *APIClient) patch(ctx context.Context, path, id string, body map[string]any) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetBody(body).
		SetError(apiErr).
		Patch(path)
	if err != nil {
		return fmt.Errorf("patch %s: %w", strings.Replace(path, "{id}", id, 1), err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return fmt.Errorf("patch %s: %w", strings.Replace(path, "{id}", id, 1), err)
	}
	return nil
}

func checkResponse(resp *resty.Response, apiErr *apiError) error {
	if resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}

	message := ""
	if apiErr != nil {
		message = apiErr.Message
		if message == "" {
			message = apiErr.Error
		}
	}
	return fmt.Errorf("ranch api error: code=%d, message=%s", resp.StatusCode(), message)
}
