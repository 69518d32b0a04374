// Package expenseservice manages business logic layer of expenses.
package expenseservice

import (
	"context"

	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/internal/groupdelivery"
	"github.com/go-petr/pet-split/pkg/currencypkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by expense service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package expenseservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateExpenseParams) (domain.Expense, error)
	Get(ctx context.Context, id int64) (domain.Expense, error)
	List(ctx context.Context, arg domain.ListExpensesParams) ([]domain.Expense, error)
	Update(ctx context.Context, arg domain.UpdateExpenseParams) (domain.Expense, error)
	Delete(ctx context.Context, id int64) error
}

// Service facilitates expense service layer logic.
type Service struct {
	repo         Repo
	groupService groupdelivery.Service
}

// New return expense service struct to manage expense bussines logic.
func New(er Repo, gs groupdelivery.Service) *Service {
	return &Service{
		repo:         er,
		groupService: gs,
	}
}

// Create validates the expense, computes its splits and records it.
//
// For an equal split only the participants of arg.Splits are used.
func (s *Service) Create(ctx context.Context, arg domain.CreateExpenseParams) (domain.Expense, error) {
	arg, err := s.prepare(ctx, arg)
	if err != nil {
		return domain.Expense{}, err
	}

	return s.repo.Create(ctx, arg)
}

// Update replaces the amount, payer and splits of the expense on behalf of
// its payer or the group admin. The splits are validated as on Create.
func (s *Service) Update(ctx context.Context, arg domain.UpdateExpenseParams, actingMember string) (domain.Expense, error) {
	expense, err := s.authorize(ctx, arg.ID, actingMember)
	if err != nil {
		return domain.Expense{}, err
	}

	prepared, err := s.prepare(ctx, domain.CreateExpenseParams{
		GroupID:     expense.GroupID,
		Description: arg.Description,
		Amount:      arg.Amount,
		Currency:    arg.Currency,
		Payer:       arg.Payer,
		SplitType:   arg.SplitType,
		Splits:      arg.Splits,
	})
	if err != nil {
		return domain.Expense{}, err
	}

	arg.Amount = prepared.Amount
	arg.Splits = prepared.Splits

	return s.repo.Update(ctx, arg)
}

// Get returns the expense with its splits.
func (s *Service) Get(ctx context.Context, id int64) (domain.Expense, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of the group expenses, newest first.
func (s *Service) List(ctx context.Context, groupID, pageSize, pageID int32) ([]domain.Expense, error) {
	if err := s.groupService.CheckMembers(ctx, groupID); err != nil {
		return nil, err
	}

	arg := domain.ListExpensesParams{
		GroupID: groupID,
		Limit:   pageSize,
		Offset:  (pageID - 1) * pageSize,
	}

	return s.repo.List(ctx, arg)
}

// Delete removes the expense and its splits on behalf of its payer or the group admin.
func (s *Service) Delete(ctx context.Context, id int64, actingMember string) error {
	if _, err := s.authorize(ctx, id, actingMember); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

// authorize returns the expense if actingMember is its payer or the group admin.
func (s *Service) authorize(ctx context.Context, id int64, actingMember string) (domain.Expense, error) {
	l := zerolog.Ctx(ctx)

	expense, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Expense{}, err
	}

	if expense.Payer == actingMember {
		return expense, nil
	}

	group, err := s.groupService.Get(ctx, expense.GroupID)
	if err != nil {
		return domain.Expense{}, err
	}

	if group.Admin != actingMember {
		l.Info().Msgf("%v tried to change expense %v paid by %v", actingMember, id, expense.Payer)
		return domain.Expense{}, domain.ErrNotExpenseOwner
	}

	return expense, nil
}

// prepare validates arg and returns it with the amount and the splits normalised to 2 decimals.
func (s *Service) prepare(ctx context.Context, arg domain.CreateExpenseParams) (domain.CreateExpenseParams, error) {
	l := zerolog.Ctx(ctx)

	amount, err := domain.ParseAmount(arg.Amount)
	if err != nil {
		l.Info().Err(err).Msgf("amount %q", arg.Amount)
		return arg, err
	}

	if !currencypkg.IsSupportedCurrency(arg.Currency) {
		return arg, domain.ErrUnsupportedCurrency
	}

	participants, err := domain.Participants(arg.Splits)
	if err != nil {
		l.Info().Err(err).Send()
		return arg, err
	}

	var shares []decimal.Decimal

	switch arg.SplitType {
	case domain.SplitEqual:
		shares = SplitEqually(amount, len(participants))
	case domain.SplitCustom:
		shares, err = customShares(amount, arg.Splits)
		if err != nil {
			l.Info().Err(err).Send()
			return arg, err
		}
	default:
		return arg, domain.ErrUnknownSplitType
	}

	if err := s.groupService.CheckMembers(ctx, arg.GroupID, append([]string{arg.Payer}, participants...)...); err != nil {
		return arg, err
	}

	arg.Amount = amount.StringFixed(2)
	arg.Splits = make([]domain.Split, len(participants))

	for i, p := range participants {
		arg.Splits[i] = domain.Split{Participant: p, Amount: shares[i].StringFixed(2)}
	}

	return arg, nil
}

func customShares(amount decimal.Decimal, splits []domain.Split) ([]decimal.Decimal, error) {
	shares := make([]decimal.Decimal, len(splits))
	total := decimal.Zero

	for i, sp := range splits {
		share, err := domain.ParseShare(sp.Amount)
		if err != nil {
			return nil, err
		}

		shares[i] = share
		total = total.Add(share)
	}

	if !total.Equal(amount) {
		return nil, domain.ErrSplitSumMismatch
	}

	return shares, nil
}

// SplitEqually divides amount into n shares that differ by at most one cent.
// The remainder cents go to the first shares so that the shares sum to amount.
// amount must not exceed currencypkg.MaxAmount.
func SplitEqually(amount decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}

	cents := amount.Shift(2).IntPart()
	base, rem := cents/int64(n), cents%int64(n)

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		c := base
		if int64(i) < rem {
			c++
		}

		shares[i] = decimal.New(c, -2)
	}

	return shares
}
