// Package expenserepo manages repository layer of expenses and their splits.
package expenserepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/pkg/dbpkg"
	"github.com/go-petr/pet-split/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates expense repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns expense RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
	expenses (group_id, description, amount, currency, payer, split_type)
VALUES
	($1, $2, $3, $4, $5, $6)
RETURNING id, group_id, description, amount, currency, payer, split_type, created_at
`

const createSplitQuery = `
INSERT INTO
	expense_splits (expense_id, participant, amount)
VALUES
	($1, $2, $3)
RETURNING participant, amount
`

// Create records the expense and its splits within a single transaction.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateExpenseParams) (domain.Expense, error) {
	l := zerolog.Ctx(ctx)

	var e domain.Expense

	err := dbpkg.ExecTx(ctx, r.db, nil, func(q dbpkg.SQLInterface) error {
		row := q.QueryRowContext(ctx, createQuery,
			arg.GroupID,
			arg.Description,
			arg.Amount,
			arg.Currency,
			arg.Payer,
			arg.SplitType,
		)

		err := scanExpense(row, &e)
		if err != nil {
			return err
		}

		e.Splits, err = insertSplits(ctx, q, e.ID, arg.Splits)

		return err
	})

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)
		return domain.Expense{}, constraintError(err)
	}

	return e, nil
}

const updateQuery = `
UPDATE expenses
SET description = $2, amount = $3, currency = $4, payer = $5, split_type = $6
WHERE id = $1
RETURNING id, group_id, description, amount, currency, payer, split_type, created_at
`

const deleteSplitsQuery = `
DELETE FROM expense_splits
WHERE expense_id = $1
`

// Update replaces the expense fields and all of its splits within a single transaction.
func (r *RepoPGS) Update(ctx context.Context, arg domain.UpdateExpenseParams) (domain.Expense, error) {
	l := zerolog.Ctx(ctx)

	var e domain.Expense

	err := dbpkg.ExecTx(ctx, r.db, nil, func(q dbpkg.SQLInterface) error {
		row := q.QueryRowContext(ctx, updateQuery,
			arg.ID,
			arg.Description,
			arg.Amount,
			arg.Currency,
			arg.Payer,
			arg.SplitType,
		)

		err := scanExpense(row, &e)
		if err != nil {
			return err
		}

		if _, err := q.ExecContext(ctx, deleteSplitsQuery, arg.ID); err != nil {
			return err
		}

		e.Splits, err = insertSplits(ctx, q, e.ID, arg.Splits)

		return err
	})

	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Expense{}, domain.ErrExpenseNotFound
		}

		l.Error().Err(err).Msgf("Update(ctx, %+v)", arg)

		return domain.Expense{}, constraintError(err)
	}

	return e, nil
}

func insertSplits(ctx context.Context, q dbpkg.SQLInterface, expenseID int64, splits []domain.Split) ([]domain.Split, error) {
	out := make([]domain.Split, 0, len(splits))

	for _, s := range splits {
		var got domain.Split

		row := q.QueryRowContext(ctx, createSplitQuery, expenseID, s.Participant, s.Amount)
		if err := row.Scan(&got.Participant, &got.Amount); err != nil {
			return nil, err
		}

		out = append(out, got)
	}

	return out, nil
}

// constraintError maps violated constraints of expenses and splits to domain errors.
func constraintError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "expenses_group_id_fkey":
			return domain.ErrGroupNotFound
		case "expenses_payer_fkey", "expense_splits_participant_fkey":
			return domain.ErrMemberNotFound
		case "expenses_amount_check":
			return domain.ErrNonPositiveAmount
		case "expense_splits_amount_check":
			return domain.ErrNegativeAmount
		case "expense_splits_pkey":
			return domain.ErrDuplicateParticipant
		}
	}

	return errorspkg.ErrInternal
}

const getQuery = `
SELECT id, group_id, description, amount, currency, payer, split_type, created_at
FROM expenses
WHERE id = $1
`

// Get returns the expense with the given id together with its splits.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Expense, error) {
	l := zerolog.Ctx(ctx)

	var e domain.Expense

	if err := scanExpense(r.db.QueryRowContext(ctx, getQuery, id), &e); err != nil {
		if err == sql.ErrNoRows {
			return domain.Expense{}, domain.ErrExpenseNotFound
		}

		l.Error().Err(err).Send()

		return domain.Expense{}, errorspkg.ErrInternal
	}

	expenses := []domain.Expense{e}
	if err := r.attachSplits(ctx, expenses); err != nil {
		return domain.Expense{}, err
	}

	return expenses[0], nil
}

const listQuery = `
SELECT id, group_id, description, amount, currency, payer, split_type, created_at
FROM expenses
WHERE group_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

// List returns a page of the group expenses, newest first.
func (r *RepoPGS) List(ctx context.Context, arg domain.ListExpensesParams) ([]domain.Expense, error) {
	return r.list(ctx, listQuery, arg.GroupID, arg.Limit, arg.Offset)
}

const listAllQuery = `
SELECT id, group_id, description, amount, currency, payer, split_type, created_at
FROM expenses
WHERE group_id = $1
ORDER BY id
`

// ListAll returns every expense of the group in creation order.
func (r *RepoPGS) ListAll(ctx context.Context, groupID int32) ([]domain.Expense, error) {
	return r.list(ctx, listAllQuery, groupID)
}

const deleteQuery = `
DELETE FROM expenses
WHERE id = $1
`

// Delete removes the expense with the given id and its splits.
func (r *RepoPGS) Delete(ctx context.Context, id int64) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...any) ([]domain.Expense, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Expense{}

	for rows.Next() {
		var e domain.Expense
		if err := scanExpense(rows, &e); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := r.attachSplits(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

const listSplitsQuery = `
SELECT expense_id, participant, amount
FROM expense_splits
WHERE expense_id = ANY($1)
ORDER BY expense_id, participant
`

// attachSplits loads the splits of all given expenses with one query.
func (r *RepoPGS) attachSplits(ctx context.Context, expenses []domain.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	l := zerolog.Ctx(ctx)

	ids := make([]int64, len(expenses))
	index := make(map[int64]int, len(expenses))

	for i := range expenses {
		ids[i] = expenses[i].ID
		index[expenses[i].ID] = i
		expenses[i].Splits = []domain.Split{}
	}

	rows, err := r.db.QueryContext(ctx, listSplitsQuery, pq.Array(ids))
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}
	defer rows.Close()

	for rows.Next() {
		var (
			expenseID int64
			s         domain.Split
		)

		if err := rows.Scan(&expenseID, &s.Participant, &s.Amount); err != nil {
			l.Error().Err(err).Send()
			return errorspkg.ErrInternal
		}

		i := index[expenseID]
		expenses[i].Splits = append(expenses[i].Splits, s)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner, e *domain.Expense) error {
	return row.Scan(
		&e.ID,
		&e.GroupID,
		&e.Description,
		&e.Amount,
		&e.Currency,
		&e.Payer,
		&e.SplitType,
		&e.CreatedAt,
	)
}
