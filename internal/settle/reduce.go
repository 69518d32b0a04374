package settle

import (
	"github.com/shopspring/decimal"
)

// Transfer is a suggested payment from a debtor to a creditor.
type Transfer struct {
	Payer    string          `json:"payer"`
	Receiver string          `json:"receiver"`
	Amount   decimal.Decimal `json:"amount"`
}

// Summary is the outcome of settling one snapshot.
type Summary struct {
	Balances   []Balance  `json:"balances"`
	Transfers  []Transfer `json:"transfers"`
	Currencies []string   `json:"currencies"`
}

// Settle aggregates the snapshot and reduces the resulting balances.
func Settle(members []string, expenses []Expense, splits []Split) Summary {
	balances := Aggregate(members, expenses, splits)

	return Summary{
		Balances:   balances,
		Transfers:  Reduce(balances),
		Currencies: Currencies(expenses),
	}
}

// Reduce returns transfers that bring every balance within Tolerance() of zero.
//
// The largest debtor repeatedly pays the largest creditor the smaller of the two
// amounts. When several members share an extreme balance the earliest one is picked.
// The given balances are not modified.
func Reduce(balances []Balance) []Transfer {
	work := make([]decimal.Decimal, len(balances))
	for i, b := range balances {
		work[i] = b.Net
	}

	transfers := []Transfer{}

	for !settled(work) {
		payer, receiver := extremes(work)

		if !work[payer].IsNegative() || !work[receiver].IsPositive() {
			break
		}

		amount := decimal.Min(work[payer].Neg(), work[receiver])

		transfers = append(transfers, Transfer{
			Payer:    balances[payer].Member,
			Receiver: balances[receiver].Member,
			Amount:   amount,
		})

		work[payer] = work[payer].Add(amount)
		work[receiver] = work[receiver].Sub(amount)
	}

	return transfers
}

func settled(work []decimal.Decimal) bool {
	tolerance := Tolerance()

	for _, b := range work {
		if b.Abs().GreaterThan(tolerance) {
			return false
		}
	}

	return true
}

// extremes returns the indexes of the minimum and maximum balances.
// work must not be empty.
func extremes(work []decimal.Decimal) (int, int) {
	lo, hi := 0, 0

	for i := 1; i < len(work); i++ {
		if work[i].LessThan(work[lo]) {
			lo = i
		}

		if work[i].GreaterThan(work[hi]) {
			hi = i
		}
	}

	return lo, hi
}
