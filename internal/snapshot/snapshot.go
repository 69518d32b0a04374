// Package snapshot reads group snapshots from YAML files and renders their settlement.
package snapshot

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/internal/expenseservice"
	"github.com/go-petr/pet-split/internal/settle"
	"github.com/go-petr/pet-split/internal/settlementservice"
	"github.com/go-petr/pet-split/pkg/currencypkg"
)

// File is the YAML layout of a snapshot.
type File struct {
	Members  []string  `yaml:"members"`
	Expenses []Expense `yaml:"expenses"`
}

// Expense is one expense of a snapshot file.
//
// Either Splits or Participants is set. Participants share the amount equally.
type Expense struct {
	Description  string   `yaml:"description"`
	Payer        string   `yaml:"payer"`
	Amount       string   `yaml:"amount"`
	Currency     string   `yaml:"currency"`
	Participants []string `yaml:"participants"`
	Splits       []Split  `yaml:"splits"`
}

// Split is a custom share of an expense.
type Split struct {
	Participant string `yaml:"participant"`
	Amount      string `yaml:"amount"`
}

// ErrAmbiguousSplit is returned when an expense has both splits and participants.
var ErrAmbiguousSplit = errors.New("expense must have either splits or participants")

// Load decodes and validates the snapshot read from r.
func Load(r io.Reader) (domain.GroupSnapshot, error) {
	var f File

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return domain.GroupSnapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	snap := domain.GroupSnapshot{
		Members:  f.Members,
		Expenses: make([]domain.Expense, 0, len(f.Expenses)),
	}

	if snap.Members == nil {
		snap.Members = []string{}
	}

	for i, e := range f.Expenses {
		expense, err := e.toDomain()
		if err != nil {
			return domain.GroupSnapshot{}, fmt.Errorf("expense %d: %w", i+1, err)
		}

		expense.ID = int64(i + 1)
		snap.Expenses = append(snap.Expenses, expense)
	}

	return snap, nil
}

func (e Expense) toDomain() (domain.Expense, error) {
	amount, err := domain.ParseAmount(e.Amount)
	if err != nil {
		return domain.Expense{}, err
	}

	if !currencypkg.IsSupportedCurrency(e.Currency) {
		return domain.Expense{}, domain.ErrUnsupportedCurrency
	}

	out := domain.Expense{
		Description: e.Description,
		Amount:      amount.StringFixed(2),
		Currency:    e.Currency,
		Payer:       e.Payer,
	}

	switch {
	case len(e.Splits) > 0 && len(e.Participants) > 0:
		return domain.Expense{}, ErrAmbiguousSplit
	case len(e.Participants) > 0:
		out.SplitType = domain.SplitEqual

		shares := expenseservice.SplitEqually(amount, len(e.Participants))
		for i, p := range e.Participants {
			out.Splits = append(out.Splits, domain.Split{Participant: p, Amount: shares[i].StringFixed(2)})
		}

		if _, err := domain.Participants(out.Splits); err != nil {
			return domain.Expense{}, err
		}
	case len(e.Splits) > 0:
		out.SplitType = domain.SplitCustom

		total := decimal.Zero

		for _, s := range e.Splits {
			share, err := domain.ParseShare(s.Amount)
			if err != nil {
				return domain.Expense{}, fmt.Errorf("split of %s: %w", s.Participant, err)
			}

			total = total.Add(share)
			out.Splits = append(out.Splits, domain.Split{Participant: s.Participant, Amount: share.StringFixed(2)})
		}

		if !total.Equal(amount) {
			return domain.Expense{}, domain.ErrSplitSumMismatch
		}

		if _, err := domain.Participants(out.Splits); err != nil {
			return domain.Expense{}, err
		}
	default:
		return domain.Expense{}, domain.ErrNoParticipants
	}

	return out, nil
}

// Summarize computes the balances and suggested transfers of the snapshot.
func Summarize(snap domain.GroupSnapshot) (settle.Summary, error) {
	expenses, splits, err := settlementservice.ToSettle(snap.Expenses)
	if err != nil {
		return settle.Summary{}, err
	}

	return settle.Settle(snap.Members, expenses, splits), nil
}
