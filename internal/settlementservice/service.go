// Package settlementservice manages business logic layer of balances and settlements.
package settlementservice

import (
	"context"

	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/internal/groupdelivery"
	"github.com/go-petr/pet-split/internal/settle"
	"github.com/go-petr/pet-split/pkg/currencypkg"
	"github.com/go-petr/pet-split/pkg/errorspkg"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by settlement service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package settlementservice
type Repo interface {
	Snapshot(ctx context.Context, groupID int32) (domain.GroupSnapshot, error)
	Create(ctx context.Context, arg domain.CreateSettlementParams) (domain.Settlement, error)
	Get(ctx context.Context, id int64) (domain.Settlement, error)
	List(ctx context.Context, groupID int32) ([]domain.Settlement, error)
	MarkPaid(ctx context.Context, id int64) (domain.Settlement, error)
}

// Service facilitates settlement service layer logic.
type Service struct {
	repo         Repo
	groupService groupdelivery.Service
	transfers    prometheus.Observer
}

// New return settlement service struct to manage settlement bussines logic.
//
// Every suggestion records its number of transfers in the given observer.
func New(sr Repo, gs groupdelivery.Service, transfers prometheus.Observer) *Service {
	return &Service{
		repo:         sr,
		groupService: gs,
		transfers:    transfers,
	}
}

// Balances returns the net balance of every group member.
func (s *Service) Balances(ctx context.Context, groupID int32) ([]settle.Balance, error) {
	members, expenses, splits, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return settle.Aggregate(members, expenses, splits), nil
}

// Suggest returns the balances of the group and the transfers that settle them.
//
// Expenses of different currencies are netted together without conversion.
func (s *Service) Suggest(ctx context.Context, groupID int32) (settle.Summary, error) {
	l := zerolog.Ctx(ctx)

	members, expenses, splits, err := s.snapshot(ctx, groupID)
	if err != nil {
		return settle.Summary{}, err
	}

	summary := settle.Settle(members, expenses, splits)

	if len(summary.Currencies) > 1 {
		l.Warn().Int32("group_id", groupID).Strs("currencies", summary.Currencies).
			Msg("netting expenses of different currencies without conversion")
	}

	s.transfers.Observe(float64(len(summary.Transfers)))

	return summary, nil
}

// Record persists a settlement between two group members as unpaid.
func (s *Service) Record(ctx context.Context, arg domain.CreateSettlementParams) (domain.Settlement, error) {
	l := zerolog.Ctx(ctx)

	amount, err := domain.ParseAmount(arg.Amount)
	if err != nil {
		l.Info().Err(err).Msgf("amount %q", arg.Amount)
		return domain.Settlement{}, err
	}

	if !currencypkg.IsSupportedCurrency(arg.Currency) {
		return domain.Settlement{}, domain.ErrUnsupportedCurrency
	}

	if arg.Payer == arg.Receiver {
		return domain.Settlement{}, domain.ErrSelfSettlement
	}

	if err := s.groupService.CheckMembers(ctx, arg.GroupID, arg.Payer, arg.Receiver); err != nil {
		return domain.Settlement{}, err
	}

	arg.Amount = amount.StringFixed(2)

	return s.repo.Create(ctx, arg)
}

// List returns the group settlements, newest first.
func (s *Service) List(ctx context.Context, groupID int32) ([]domain.Settlement, error) {
	if err := s.groupService.CheckMembers(ctx, groupID); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, groupID)
}

// MarkPaid marks the settlement as paid when requested by its payer or receiver.
func (s *Service) MarkPaid(ctx context.Context, id int64, actingMember string) (domain.Settlement, error) {
	l := zerolog.Ctx(ctx)

	settlement, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Settlement{}, err
	}

	if actingMember != settlement.Payer && actingMember != settlement.Receiver {
		l.Info().Msgf("%v tried to mark settlement %v between %v and %v as paid",
			actingMember, id, settlement.Payer, settlement.Receiver)
		return domain.Settlement{}, domain.ErrNotSettlementParty
	}

	return s.repo.MarkPaid(ctx, id)
}

func (s *Service) snapshot(ctx context.Context, groupID int32) ([]string, []settle.Expense, []settle.Split, error) {
	snap, err := s.repo.Snapshot(ctx, groupID)
	if err != nil {
		return nil, nil, nil, err
	}

	expenses, splits, err := ToSettle(snap.Expenses)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int32("group_id", groupID).Msg("stored amount is not a decimal")
		return nil, nil, nil, errorspkg.ErrInternal
	}

	return snap.Members, expenses, splits, nil
}

// ToSettle converts stored expenses into the input of the settle package.
func ToSettle(expenses []domain.Expense) ([]settle.Expense, []settle.Split, error) {
	out := make([]settle.Expense, 0, len(expenses))

	var splits []settle.Split

	for _, e := range expenses {
		amount, err := decimal.NewFromString(e.Amount)
		if err != nil {
			return nil, nil, err
		}

		out = append(out, settle.Expense{Payer: e.Payer, Amount: amount, Currency: e.Currency})

		for _, sp := range e.Splits {
			share, err := decimal.NewFromString(sp.Amount)
			if err != nil {
				return nil, nil, err
			}

			splits = append(splits, settle.Split{Participant: sp.Participant, Amount: share})
		}
	}

	return out, splits, nil
}
