package smm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smmpanel/backend/internal/domain/ordering"
)

// Client implements the Provider interface against a standard SMM panel API.
// Every call is a form-encoded POST carrying key and action fields.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new SMM panel client
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Services lists the provider's service catalog
func (c *Client) Services(ctx context.Context) ([]ordering.ProviderService, error) {
	respBody, err := c.doRequest(ctx, url.Values{"action": {"services"}})
	if err != nil {
		return nil, err
	}

	// An error response is an object, a successful one is an array
	var apiErr apiError
	if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
		return nil, fmt.Errorf("%w: %s", ordering.ErrProviderRequestFailed, apiErr.Error)
	}

	var entries []serviceEntry
	if err := json.Unmarshal(respBody, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ordering.ErrProviderInvalidResponse, err)
	}

	services := make([]ordering.ProviderService, 0, len(entries))
	for _, entry := range entries {
		rate, err := decimal.NewFromString(entry.Rate)
		if err != nil {
			return nil, fmt.Errorf("%w: bad rate %q for service %s", ordering.ErrProviderInvalidResponse, entry.Rate, entry.Service)
		}

		services = append(services, ordering.ProviderService{
			ServiceID:   numberToInt(entry.Service),
			Name:        entry.Name,
			Category:    entry.Category,
			Type:        entry.Type,
			Rate:        rate,
			MinQuantity: numberToInt(entry.Min),
			MaxQuantity: numberToInt(entry.Max),
		})
	}

	return services, nil
}

// Balance returns the reseller account balance at the provider
func (c *Client) Balance(ctx context.Context) (decimal.Decimal, string, error) {
	respBody, err := c.doRequest(ctx, url.Values{"action": {"balance"}})
	if err != nil {
		return decimal.Zero, "", err
	}

	var resp balanceResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return decimal.Zero, "", fmt.Errorf("%w: %v", ordering.ErrProviderInvalidResponse, err)
	}
	if resp.Error != "" {
		return decimal.Zero, "", fmt.Errorf("%w: %s", ordering.ErrProviderRequestFailed, resp.Error)
	}

	balance, err := decimal.NewFromString(resp.Balance)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("%w: bad balance %q", ordering.ErrProviderInvalidResponse, resp.Balance)
	}

	return balance, resp.Currency, nil
}

// AddOrder places an order and returns the provider order id
func (c *Client) AddOrder(ctx context.Context, req *ordering.AddOrderRequest) (string, error) {
	params := url.Values{
		"action":   {"add"},
		"service":  {strconv.Itoa(req.ServiceID)},
		"link":     {req.Link},
		"quantity": {strconv.Itoa(req.Quantity)},
	}

	respBody, err := c.doRequest(ctx, params)
	if err != nil {
		return "", err
	}

	var resp addOrderResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ordering.ErrProviderInvalidResponse, err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("%w: %s", ordering.ErrProviderRejected, resp.Error)
	}
	if resp.Order.String() == "" {
		return "", fmt.Errorf("%w: missing order id", ordering.ErrProviderInvalidResponse)
	}

	return resp.Order.String(), nil
}

// OrderStatus fetches the current status of an order
func (c *Client) OrderStatus(ctx context.Context, providerOrderID string) (*ordering.ProviderOrderStatus, error) {
	params := url.Values{
		"action": {"status"},
		"order":  {providerOrderID},
	}

	respBody, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp orderStatusResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ordering.ErrProviderInvalidResponse, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ordering.ErrProviderRequestFailed, resp.Error)
	}

	return &ordering.ProviderOrderStatus{
		Status:     mapOrderStatus(resp.Status),
		Charge:     resp.Charge,
		StartCount: numberToInt(resp.StartCount),
		Remains:    numberToInt(resp.Remains),
		Currency:   resp.Currency,
	}, nil
}

// CancelOrder asks the provider to cancel a pending order
func (c *Client) CancelOrder(ctx context.Context, providerOrderID string) error {
	params := url.Values{
		"action": {"cancel"},
		"orders": {providerOrderID},
	}

	respBody, err := c.doRequest(ctx, params)
	if err != nil {
		return err
	}

	// Cancel responds with a per-order result list
	var results []struct {
		Order  json.Number     `json:"order"`
		Cancel json.RawMessage `json:"cancel"`
	}
	if err := json.Unmarshal(respBody, &results); err != nil {
		var apiErr apiError
		if jsonErr := json.Unmarshal(respBody, &apiErr); jsonErr == nil && apiErr.Error != "" {
			return fmt.Errorf("%w: %s", ordering.ErrProviderRequestFailed, apiErr.Error)
		}
		return fmt.Errorf("%w: %v", ordering.ErrProviderInvalidResponse, err)
	}

	for _, result := range results {
		var cancelErr apiError
		if err := json.Unmarshal(result.Cancel, &cancelErr); err == nil && cancelErr.Error != "" {
			return fmt.Errorf("%w: %s", ordering.ErrProviderRejected, cancelErr.Error)
		}
	}

	return nil
}

// Refill requests a refill for a completed order
func (c *Client) Refill(ctx context.Context, providerOrderID string) (string, error) {
	params := url.Values{
		"action": {"refill"},
		"order":  {providerOrderID},
	}

	respBody, err := c.doRequest(ctx, params)
	if err != nil {
		return "", err
	}

	var resp refillResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ordering.ErrProviderInvalidResponse, err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("%w: %s", ordering.ErrProviderRejected, resp.Error)
	}
	if resp.Refill.String() == "" {
		return "", fmt.Errorf("%w: missing refill id", ordering.ErrProviderInvalidResponse)
	}

	return resp.Refill.String(), nil
}

// RefillStatus fetches the state of a refill request
func (c *Client) RefillStatus(ctx context.Context, refillID string) (*ordering.RefillStatus, error) {
	params := url.Values{
		"action": {"refill_status"},
		"refill": {refillID},
	}

	respBody, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp refillStatusResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ordering.ErrProviderInvalidResponse, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ordering.ErrProviderRequestFailed, resp.Error)
	}

	return &ordering.RefillStatus{
		RefillID: refillID,
		Status:   resp.Status,
	}, nil
}

// doRequest performs a form-encoded POST against the panel API
func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("key", c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("smm: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ordering.ErrProviderRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("smm: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ordering.ErrProviderRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

// mapOrderStatus maps the panel's status string to our order status
func mapOrderStatus(status string) ordering.OrderStatus {
	switch status {
	case "Pending":
		return ordering.OrderStatusPending
	case "In progress":
		return ordering.OrderStatusInProgress
	case "Processing":
		return ordering.OrderStatusProcessing
	case "Completed":
		return ordering.OrderStatusCompleted
	case "Partial":
		return ordering.OrderStatusPartial
	case "Canceled", "Cancelled":
		return ordering.OrderStatusCanceled
	default:
		return ordering.OrderStatus(status)
	}
}

// numberToInt converts a json.Number to int, tolerating empty values
func numberToInt(n json.Number) int {
	v, err := strconv.Atoi(n.String())
	if err != nil {
		return 0
	}
	return v
}

// Ensure Client implements Provider interface
var _ ordering.Provider = (*Client)(nil)
