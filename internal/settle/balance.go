// Package settle computes group balances and the transfers that settle them.
package settle

import (
	"github.com/shopspring/decimal"
)

// Tolerance returns the absolute amount up to which a balance counts as settled.
func Tolerance() decimal.Decimal {
	return decimal.New(1, -2)
}

// Expense is one paid expense as seen by the settlement computation.
type Expense struct {
	Payer    string
	Amount   decimal.Decimal
	Currency string
}

// Split is the portion of an expense attributed to one participant.
type Split struct {
	Participant string
	Amount      decimal.Decimal
}

// Balance holds the aggregated position of one member.
//
// Net is positive when the member is owed money and negative when the member owes.
type Balance struct {
	Member string          `json:"member"`
	Paid   decimal.Decimal `json:"paid"`
	Owed   decimal.Decimal `json:"owed"`
	Net    decimal.Decimal `json:"balance"`
}

// Aggregate reduces expenses and splits into one balance per member.
//
// Balances are returned in the order of members. Duplicate members are reported once.
// Payers and participants outside of members are ignored. Currencies are not converted.
func Aggregate(members []string, expenses []Expense, splits []Split) []Balance {
	index := make(map[string]int, len(members))
	balances := make([]Balance, 0, len(members))

	for _, m := range members {
		if _, ok := index[m]; ok {
			continue
		}

		index[m] = len(balances)
		balances = append(balances, Balance{
			Member: m,
			Paid:   decimal.Zero,
			Owed:   decimal.Zero,
			Net:    decimal.Zero,
		})
	}

	for _, e := range expenses {
		if i, ok := index[e.Payer]; ok {
			balances[i].Paid = balances[i].Paid.Add(e.Amount)
		}
	}

	for _, s := range splits {
		if i, ok := index[s.Participant]; ok {
			balances[i].Owed = balances[i].Owed.Add(s.Amount)
		}
	}

	for i := range balances {
		balances[i].Net = balances[i].Paid.Sub(balances[i].Owed)
	}

	return balances
}

// Nets returns the member to net balance mapping of the given balances.
func Nets(balances []Balance) map[string]decimal.Decimal {
	nets := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		nets[b.Member] = b.Net
	}

	return nets
}

// Currencies returns the distinct currencies of expenses in first seen order.
func Currencies(expenses []Expense) []string {
	seen := make(map[string]struct{})
	currencies := []string{}

	for _, e := range expenses {
		if e.Currency == "" {
			continue
		}

		if _, ok := seen[e.Currency]; ok {
			continue
		}

		seen[e.Currency] = struct{}{}
		currencies = append(currencies, e.Currency)
	}

	return currencies
}
