//go:build integration

package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/internal/integrationtest"
	"github.com/go-petr/pet-split/internal/settle"
	"github.com/go-petr/pet-split/internal/test"
	"github.com/go-petr/pet-split/pkg/currencypkg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSettleGroupAPI(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	a := test.SeedMember(t, server.DB)
	b := test.SeedMember(t, server.DB)
	c := test.SeedMember(t, server.DB)
	group := test.SeedGroup(t, server.DB, a.Username, b.Username, c.Username)

	groupURL := fmt.Sprintf("/groups/%d", group.ID)

	var created struct {
		Expense domain.Expense `json:"expense"`
	}

	code, res := do(t, http.MethodPost, groupURL+"/expenses", map[string]any{
		"description":  "Dinner",
		"amount":       "30",
		"currency":     currencypkg.USD,
		"payer":        a.Username,
		"split_type":   domain.SplitEqual,
		"participants": []string{a.Username, b.Username, c.Username},
	}, &created)
	require.Equal(t, http.StatusCreated, code, res.Error)
	require.Equal(t, "30.00", created.Expense.Amount)
	require.Len(t, created.Expense.Splits, 3)

	code, res = do(t, http.MethodPost, groupURL+"/expenses", map[string]any{
		"description": "Taxi",
		"amount":      "10",
		"currency":    currencypkg.USD,
		"payer":       a.Username,
		"split_type":  domain.SplitCustom,
		"splits": []map[string]string{
			{"participant": b.Username, "amount": "6"},
			{"participant": c.Username, "amount": "3"},
		},
	}, nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, domain.ErrSplitSumMismatch.Error(), res.Error)

	var summary settle.Summary

	code, res = do(t, http.MethodGet, groupURL+"/settlements/suggested", nil, &summary)
	require.Equal(t, http.StatusOK, code, res.Error)

	wantNets := map[string]decimal.Decimal{
		a.Username: decimal.NewFromInt(20),
		b.Username: decimal.NewFromInt(-10),
		c.Username: decimal.NewFromInt(-10),
	}

	for m, net := range settle.Nets(summary.Balances) {
		require.True(t, wantNets[m].Equal(net), "balance of %s = %v", m, net)
	}

	require.Len(t, summary.Transfers, 2)
	require.Equal(t, []string{currencypkg.USD}, summary.Currencies)

	for _, tr := range summary.Transfers {
		require.Equal(t, a.Username, tr.Receiver)
		require.True(t, tr.Amount.Equal(decimal.NewFromInt(10)), "amount = %v", tr.Amount)
	}

	var recorded struct {
		Settlement domain.Settlement `json:"settlement"`
	}

	code, res = do(t, http.MethodPost, groupURL+"/settlements", map[string]string{
		"payer":    b.Username,
		"receiver": a.Username,
		"amount":   "10",
		"currency": currencypkg.USD,
	}, &recorded)
	require.Equal(t, http.StatusCreated, code, res.Error)
	require.False(t, recorded.Settlement.IsPaid)
	require.Equal(t, "10.00", recorded.Settlement.Amount)

	var listed struct {
		Settlements []domain.Settlement `json:"settlements"`
	}

	code, res = do(t, http.MethodGet, groupURL+"/settlements", nil, &listed)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.Len(t, listed.Settlements, 1)

	paidURL := fmt.Sprintf("/settlements/%d/paid", recorded.Settlement.ID)

	var paid struct {
		Settlement domain.Settlement `json:"settlement"`
	}

	code, res = do(t, http.MethodPost, paidURL+"?member="+c.Username, nil, nil)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, domain.ErrNotSettlementParty.Error(), res.Error)

	code, res = do(t, http.MethodPost, paidURL+"?member="+b.Username, nil, &paid)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.True(t, paid.Settlement.IsPaid)
	require.NotNil(t, paid.Settlement.PaidAt)

	code, res = do(t, http.MethodPost, paidURL+"?member="+a.Username, nil, nil)
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, domain.ErrSettlementAlreadyPaid.Error(), res.Error)

	// Recorded settlements do not change the suggestion.
	code, res = do(t, http.MethodGet, groupURL+"/settlements/suggested", nil, &summary)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.Len(t, summary.Transfers, 2)
}

func TestSuggestEmptyGroupAPI(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	admin := test.SeedMember(t, server.DB)
	group := test.SeedGroup(t, server.DB, admin.Username)

	var summary settle.Summary

	code, res := do(t, http.MethodGet, fmt.Sprintf("/groups/%d/settlements/suggested", group.ID), nil, &summary)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.Empty(t, summary.Transfers)
	require.Len(t, summary.Balances, 1)
	require.True(t, summary.Balances[0].Net.IsZero())

	code, res = do(t, http.MethodGet, "/groups/999999/settlements/suggested", nil, nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, domain.ErrGroupNotFound.Error(), res.Error)
}
