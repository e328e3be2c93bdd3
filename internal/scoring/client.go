package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/repayflow/plan-engine/internal/domain"
)

// Optimizer is the scoring collaborator's contract: given a debt and the
// amount to schedule, return a recommendation with a confidence score, or
// fail. The collaborator is optional; a nil Optimizer is handled by the
// adapter exactly like a zero-confidence answer.
type Optimizer interface {
	OptimizeSchedule(ctx context.Context, debt *domain.DebtSnapshot, amount decimal.Decimal, targetWeeks int, minInstallment decimal.Decimal) (*domain.ScheduleRecommendation, error)
}

// Client talks to the external schedule optimizer over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type optimizeRequest struct {
	DebtID             string          `json:"debt_id"`
	OrganizationID     string          `json:"organization_id"`
	OutstandingAmount  decimal.Decimal `json:"outstanding_amount"`
	AmountToSchedule   decimal.Decimal `json:"amount_to_schedule"`
	CurrencyCode       string          `json:"currency_code"`
	TargetWeeks        int             `json:"target_weeks"`
	MinimumInstallment decimal.Decimal `json:"minimum_installment"`
}

type optimizeResponse struct {
	Frequency         string          `json:"frequency"`
	InstallmentCount  int             `json:"installment_count"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	Schedule          []struct {
		Sequence    int             `json:"sequence"`
		DueDate     time.Time       `json:"due_date"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	} `json:"schedule"`
	Rationale  string  `json:"rationale"`
	Confidence float64 `json:"confidence"`
}

// OptimizeSchedule performs the single external call. No retries; the caller
// decides what a failure means.
func (c *Client) OptimizeSchedule(ctx context.Context, debt *domain.DebtSnapshot, amount decimal.Decimal, targetWeeks int, minInstallment decimal.Decimal) (*domain.ScheduleRecommendation, error) {
	body, err := json.Marshal(optimizeRequest{
		DebtID:             debt.DebtID,
		OrganizationID:     debt.OrganizationID,
		OutstandingAmount:  debt.OutstandingAmount,
		AmountToSchedule:   amount,
		CurrencyCode:       debt.CurrencyCode,
		TargetWeeks:        targetWeeks,
		MinimumInstallment: minInstallment,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/optimize-schedule", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("scoring API error (status %d): %s", resp.StatusCode, string(payload))
	}

	var out optimizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	schedule := make([]domain.InstallmentPreview, 0, len(out.Schedule))
	for _, entry := range out.Schedule {
		schedule = append(schedule, domain.InstallmentPreview{
			Sequence:    entry.Sequence,
			DueDate:     entry.DueDate,
			Amount:      entry.Amount,
			Description: entry.Description,
		})
	}

	return &domain.ScheduleRecommendation{
		Frequency:         out.Frequency,
		InstallmentCount:  out.InstallmentCount,
		InstallmentAmount: out.InstallmentAmount,
		Schedule:          schedule,
		Rationale:         out.Rationale,
		Confidence:        out.Confidence,
	}, nil
}
