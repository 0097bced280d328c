package payment

// fastLipaEnvelope is the common response wrapper returned by every endpoint.
// The outer status reports whether the API call itself succeeded; the payment
// state lives inside data.
type fastLipaEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e *fastLipaEnvelope) ok() bool {
	return e.Status == "success"
}

// fastLipaCreateRequest is the body of POST /create-transaction
type fastLipaCreateRequest struct {
	Number string `json:"number"`
	Amount int64  `json:"amount"`
	Name   string `json:"name"`
}

type fastLipaCreateResponse struct {
	fastLipaEnvelope
	Data struct {
		TranID string `json:"tranID"`
	} `json:"data"`
}

type fastLipaStatusResponse struct {
	fastLipaEnvelope
	Data struct {
		TranID        string `json:"tranID"`
		PaymentStatus string `json:"payment_status"`
		Amount        int64  `json:"amount"`
		Number        string `json:"number"`
	} `json:"data"`
}

type fastLipaBalanceResponse struct {
	fastLipaEnvelope
	Data struct {
		Balance  string `json:"balance"`
		Currency string `json:"currency"`
	} `json:"data"`
}

const (
	fastLipaStatusCompleted = "COMPLETED"
	fastLipaStatusFailed    = "FAILED"
	fastLipaStatusPending   = "PENDING"
)
