package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"email":             true,
	"display_name":      true,
	"role":              true,
	"suspended":         true,
	"balance":           true,
	"referral_earnings": true,
	"total_referrals":   true,
	"last_deposit_at":   true,
}

// TransactionSortFields contains allowed sort fields for deposit transactions
var TransactionSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"amount":       true,
	"status":       true,
	"completed_at": true,
	"deadline_at":  true,
}

// WithdrawalSortFields contains allowed sort fields for withdrawals
var WithdrawalSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"amount":     true,
	"status":     true,
	"settled_at": true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"quantity":       true,
	"cost":           true,
	"status":         true,
	"start_count":    true,
	"remains":        true,
	"last_synced_at": true,
}

// ServiceSortFields contains allowed sort fields for catalog services
var ServiceSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"provider_service_id": true,
	"name":                true,
	"category":            true,
	"price_per1000":       true,
	"min_quantity":        true,
	"max_quantity":        true,
	"enabled":             true,
}
