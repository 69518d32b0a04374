package domain

import (
	"errors"
	"time"
)

var (
	// ErrSettlementNotFound indicates that the settlement is not found.
	ErrSettlementNotFound = errors.New("settlement not found")
	// ErrSettlementAlreadyPaid indicates that the settlement is already marked paid.
	ErrSettlementAlreadyPaid = errors.New("settlement is already paid")
	// ErrSelfSettlement indicates a settlement whose payer is also its receiver.
	ErrSelfSettlement = errors.New("payer and receiver must differ")
	// ErrNotSettlementParty indicates that only the payer or the receiver may mark the settlement paid.
	ErrNotSettlementParty = errors.New("only the payer or receiver can mark the settlement as paid")
)

// Settlement is a ledger entry of a payment between two members of a group.
type Settlement struct {
	ID        int64      `json:"id"`
	GroupID   int32      `json:"group_id"`
	Payer     string     `json:"payer"`
	Receiver  string     `json:"receiver"`
	Amount    string     `json:"amount"`
	Currency  string     `json:"currency"`
	IsPaid    bool       `json:"is_paid"`
	CreatedAt time.Time  `json:"created_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

// CreateSettlementParams is the input data to record a settlement.
type CreateSettlementParams struct {
	GroupID  int32  `json:"group_id"`
	Payer    string `json:"payer"`
	Receiver string `json:"receiver"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}
