package domain

import (
	"errors"
	"time"
)

var (
	// ErrExpenseNotFound indicates that the expense is not found.
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNonPositiveAmount indicates an amount that must be greater than zero.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrNegativeAmount indicates negative amount.
	ErrNegativeAmount = errors.New("negative amount")
	// ErrTooManyDecimals indicates an amount with more than two fractional digits.
	ErrTooManyDecimals = errors.New("amount has more than 2 decimals")
	// ErrUnsupportedCurrency indicates that the currency is not supported.
	ErrUnsupportedCurrency = errors.New("currency is not supported")
	// ErrNoParticipants indicates an expense without any participant.
	ErrNoParticipants = errors.New("expense has no participants")
	// ErrDuplicateParticipant indicates that a participant is listed twice.
	ErrDuplicateParticipant = errors.New("duplicate participant")
	// ErrSplitSumMismatch indicates that the splits do not add up to the expense amount.
	ErrSplitSumMismatch = errors.New("the sum of splits must equal the total expense amount")
	// ErrUnknownSplitType indicates an unsupported split type.
	ErrUnknownSplitType = errors.New("unknown split type")
	// ErrAmountTooLarge indicates an amount above MaxAmount.
	ErrAmountTooLarge = errors.New("amount must not exceed 9999999999.99")
	// ErrNotExpenseOwner indicates that only the payer or the group admin may change the expense.
	ErrNotExpenseOwner = errors.New("only the expense payer or group admin can change the expense")
)

// Split types.
const (
	SplitEqual  = "equal"
	SplitCustom = "custom"
)

// Expense is an amount paid by one member on behalf of the group.
type Expense struct {
	ID          int64     `json:"id"`
	GroupID     int32     `json:"group_id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"` // must be positive
	Currency    string    `json:"currency"`
	Payer       string    `json:"payer"`
	SplitType   string    `json:"split_type"`
	Splits      []Split   `json:"splits"`
	CreatedAt   time.Time `json:"created_at"`
}

// Split is the portion of an expense attributed to one participant.
type Split struct {
	Participant string `json:"participant"`
	Amount      string `json:"amount"`
}

// CreateExpenseParams is the input data to record an expense.
//
// For SplitEqual only the participants of Splits are used and their amounts are computed.
type CreateExpenseParams struct {
	GroupID     int32   `json:"group_id"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Currency    string  `json:"currency"`
	Payer       string  `json:"payer"`
	SplitType   string  `json:"split_type"`
	Splits      []Split `json:"splits"`
}

// ListExpensesParams is the input data to page through group expenses.
type ListExpensesParams struct {
	GroupID int32 `json:"group_id"`
	Limit   int32 `json:"limit"`
	Offset  int32 `json:"offset"`
}

// UpdateExpenseParams replaces the amount, payer and splits of an expense.
type UpdateExpenseParams struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Currency    string  `json:"currency"`
	Payer       string  `json:"payer"`
	SplitType   string  `json:"split_type"`
	Splits      []Split `json:"splits"`
}

// Participants returns the participants of splits in order.
// It fails on an empty or repeating list.
func Participants(splits []Split) ([]string, error) {
	if len(splits) == 0 {
		return nil, ErrNoParticipants
	}

	seen := make(map[string]struct{}, len(splits))
	participants := make([]string, 0, len(splits))

	for _, sp := range splits {
		if _, ok := seen[sp.Participant]; ok {
			return nil, ErrDuplicateParticipant
		}

		seen[sp.Participant] = struct{}{}
		participants = append(participants, sp.Participant)
	}

	return participants, nil
}
