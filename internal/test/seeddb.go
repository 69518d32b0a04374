// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"

	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/internal/expenserepo"
	"github.com/go-petr/pet-split/internal/grouprepo"
	"github.com/go-petr/pet-split/internal/memberrepo"
	"github.com/go-petr/pet-split/internal/settlementrepo"
	"github.com/go-petr/pet-split/pkg/dbpkg"
	"github.com/go-petr/pet-split/pkg/randompkg"
)

// SeedMember creates random Member inside a test transaction.
func SeedMember(t *testing.T, tx dbpkg.SQLInterface) domain.Member {
	t.Helper()

	arg := domain.CreateMemberParams{
		Username: randompkg.Username(),
		FullName: randompkg.String(10),
		Email:    randompkg.Email(),
	}

	member, err := memberrepo.NewRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("memberRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return member
}

// SeedGroup creates Group administered by admin and adds the members to it inside a test transaction.
func SeedGroup(t *testing.T, tx dbpkg.SQLInterface, admin string, members ...string) domain.Group {
	t.Helper()

	groupRepo := grouprepo.NewRepoPGS(tx)

	arg := domain.CreateGroupParams{
		Name:        randompkg.String(10),
		Description: randompkg.String(20),
		Admin:       admin,
	}

	group, err := groupRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("groupRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	for _, m := range members {
		if err := groupRepo.AddMember(context.Background(), group.ID, m); err != nil {
			t.Fatalf("groupRepo.AddMember(context.Background(), %v, %v) returned error: %v", group.ID, m, err)
		}

		group.Members = append(group.Members, m)
	}

	return group
}

// SeedExpense creates a custom split Expense inside a test transaction.
// The expense amount is the sum of the given splits.
func SeedExpense(t *testing.T, tx dbpkg.SQLInterface, groupID int32, payer, currency string, splits ...domain.Split) domain.Expense {
	t.Helper()

	amount, err := sumSplits(splits)
	if err != nil {
		t.Fatalf("sumSplits(%+v) returned error: %v", splits, err)
	}

	arg := domain.CreateExpenseParams{
		GroupID:     groupID,
		Description: randompkg.String(10),
		Amount:      amount,
		Currency:    currency,
		Payer:       payer,
		SplitType:   domain.SplitCustom,
		Splits:      splits,
	}

	expense, err := expenserepo.NewRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("expenseRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return expense
}

// SeedSettlement creates unpaid Settlement inside a test transaction.
func SeedSettlement(t *testing.T, tx dbpkg.SQLInterface, groupID int32, payer, receiver string) domain.Settlement {
	t.Helper()

	arg := domain.CreateSettlementParams{
		GroupID:  groupID,
		Payer:    payer,
		Receiver: receiver,
		Amount:   randompkg.MoneyAmountBetween(1, 100),
		Currency: randompkg.Currency(),
	}

	settlement, err := settlementrepo.NewRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("settlementRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return settlement
}

func sumSplits(splits []domain.Split) (string, error) {
	total, err := domain.ParseShare("0")
	if err != nil {
		return "", err
	}

	for _, s := range splits {
		share, err := domain.ParseShare(s.Amount)
		if err != nil {
			return "", err
		}

		total = total.Add(share)
	}

	return total.StringFixed(2), nil
}
