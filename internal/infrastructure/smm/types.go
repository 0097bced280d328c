package smm

import "encoding/json"

// apiError is present in any response when the panel rejects a request
type apiError struct {
	Error string `json:"error"`
}

// serviceEntry is one row of the services catalog. Panels are inconsistent
// about numeric fields, some send them as strings, so json.Number is used.
type serviceEntry struct {
	Service  json.Number `json:"service"`
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Category string      `json:"category"`
	Rate     string      `json:"rate"`
	Min      json.Number `json:"min"`
	Max      json.Number `json:"max"`
}

type balanceResponse struct {
	apiError
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

type addOrderResponse struct {
	apiError
	Order json.Number `json:"order"`
}

type orderStatusResponse struct {
	apiError
	Charge     string      `json:"charge"`
	StartCount json.Number `json:"start_count"`
	Status     string      `json:"status"`
	Remains    json.Number `json:"remains"`
	Currency   string      `json:"currency"`
}

type refillResponse struct {
	apiError
	Refill json.Number `json:"refill"`
}

type refillStatusResponse struct {
	apiError
	Status string `json:"status"`
}
