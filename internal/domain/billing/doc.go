// Package billing provides domain models for customer funds.
//
// It covers the deposit lifecycle (mobile money transactions created
// against the payment gateway, confirmed by polling or webhook), the
// minor-unit money helpers shared by every balance mutation, and
// withdrawals of referral earnings. Amounts are carried as int64 minor
// units end to end; decimal values appear only at the gateway boundary.
package billing
