package test

import (
	"time"

	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/pkg/randompkg"
)

// RandomMember returns random member.
func RandomMember() domain.Member {
	return domain.Member{
		Username:  randompkg.Username(),
		FullName:  randompkg.String(10),
		Email:     randompkg.Email(),
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomGroup returns random group administered by admin with the given extra members.
func RandomGroup(admin string, members ...string) domain.Group {
	return domain.Group{
		ID:            randompkg.IntBetween(1, 100),
		Name:          randompkg.String(10),
		Description:   randompkg.String(20),
		Admin:         admin,
		Members:       append([]string{admin}, members...),
		TotalExpenses: "0.00",
		CreatedAt:     time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomSettlement returns random unpaid settlement of the group.
func RandomSettlement(groupID int32, payer, receiver string) domain.Settlement {
	return domain.Settlement{
		ID:        int64(randompkg.IntBetween(1, 100)),
		GroupID:   groupID,
		Payer:     payer,
		Receiver:  receiver,
		Amount:    randompkg.MoneyAmountBetween(1, 100),
		Currency:  randompkg.Currency(),
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}
