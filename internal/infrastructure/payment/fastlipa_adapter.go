package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/smmpanel/backend/internal/domain/billing"
)

// FastLipaAdapter implements the PaymentGateway interface for FastLipa
type FastLipaAdapter struct {
	config     *FastLipaConfig
	httpClient *http.Client
}

// NewFastLipaAdapter creates a new FastLipa adapter
func NewFastLipaAdapter(config *FastLipaConfig) (*FastLipaAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &FastLipaAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// CreateTransaction initiates a push payment prompt on the payer's phone
func (a *FastLipaAdapter) CreateTransaction(ctx context.Context, req *billing.CreateTransactionRequest) (*billing.CreateTransactionResponse, error) {
	body := fastLipaCreateRequest{
		Number: req.Phone,
		Amount: req.Amount.Round(0).IntPart(),
		Name:   req.Name,
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, "/create-transaction", &body)
	if err != nil {
		return nil, err
	}

	var createResp fastLipaCreateResponse
	if err := json.Unmarshal(respBody, &createResp); err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrGatewayInvalidResponse, err)
	}

	if !createResp.ok() {
		return nil, fmt.Errorf("%w: %s", billing.ErrGatewayRejected, createResp.Message)
	}
	if createResp.Data.TranID == "" {
		return nil, fmt.Errorf("%w: missing transaction id", billing.ErrGatewayInvalidResponse)
	}

	return &billing.CreateTransactionResponse{
		TransactionID: createResp.Data.TranID,
		Message:       createResp.Message,
	}, nil
}

// QueryTransaction fetches the current status of a transaction
func (a *FastLipaAdapter) QueryTransaction(ctx context.Context, transactionID string) (*billing.TransactionStatusResponse, error) {
	path := "/status-transaction?tranid=" + url.QueryEscape(transactionID)

	respBody, err := a.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var statusResp fastLipaStatusResponse
	if err := json.Unmarshal(respBody, &statusResp); err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrGatewayInvalidResponse, err)
	}

	if !statusResp.ok() {
		return nil, fmt.Errorf("%w: %s", billing.ErrGatewayRequestFailed, statusResp.Message)
	}

	return &billing.TransactionStatusResponse{
		TransactionID: statusResp.Data.TranID,
		Status:        mapFastLipaStatus(statusResp.Data.PaymentStatus),
		Amount:        decimal.NewFromInt(statusResp.Data.Amount),
		Message:       statusResp.Message,
	}, nil
}

// Balance returns the merchant account balance in major units
func (a *FastLipaAdapter) Balance(ctx context.Context) (decimal.Decimal, error) {
	respBody, err := a.doRequest(ctx, http.MethodGet, "/balance", nil)
	if err != nil {
		return decimal.Zero, err
	}

	var balanceResp fastLipaBalanceResponse
	if err := json.Unmarshal(respBody, &balanceResp); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", billing.ErrGatewayInvalidResponse, err)
	}

	if !balanceResp.ok() {
		return decimal.Zero, fmt.Errorf("%w: %s", billing.ErrGatewayRequestFailed, balanceResp.Message)
	}

	balance, err := decimal.NewFromString(balanceResp.Data.Balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad balance %q", billing.ErrGatewayInvalidResponse, balanceResp.Data.Balance)
	}

	return balance, nil
}

// doRequest performs an HTTP request against the FastLipa API
func (a *FastLipaAdapter) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("fastlipa: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("fastlipa: failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrGatewayRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fastlipa: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", billing.ErrGatewayRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

// mapFastLipaStatus maps FastLipa payment status to our status
func mapFastLipaStatus(status string) billing.TransactionStatus {
	switch status {
	case fastLipaStatusCompleted:
		return billing.TransactionStatusCompleted
	case fastLipaStatusFailed:
		return billing.TransactionStatusFailed
	default:
		return billing.TransactionStatusPending
	}
}

// Ensure FastLipaAdapter implements PaymentGateway interface
var _ billing.PaymentGateway = (*FastLipaAdapter)(nil)
