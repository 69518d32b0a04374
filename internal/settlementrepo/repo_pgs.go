// Package settlementrepo manages repository layer of settlements.
package settlementrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/internal/expenserepo"
	"github.com/go-petr/pet-split/internal/grouprepo"
	"github.com/go-petr/pet-split/pkg/dbpkg"
	"github.com/go-petr/pet-split/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates settlement repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns settlement RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const columns = `id, group_id, payer, receiver, amount, currency, is_paid, created_at, paid_at`

const createQuery = `
INSERT INTO
	settlements (group_id, payer, receiver, amount, currency)
VALUES
	($1, $2, $3, $4, $5)
RETURNING ` + columns

// Create records the settlement and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateSettlementParams) (domain.Settlement, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.GroupID,
		arg.Payer,
		arg.Receiver,
		arg.Amount,
		arg.Currency,
	)

	var s domain.Settlement

	if err := scanSettlement(row, &s); err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "settlements_group_id_fkey":
				return domain.Settlement{}, domain.ErrGroupNotFound
			case "settlements_payer_fkey", "settlements_receiver_fkey":
				return domain.Settlement{}, domain.ErrMemberNotFound
			case "settlements_amount_check":
				return domain.Settlement{}, domain.ErrNonPositiveAmount
			}
		}

		return domain.Settlement{}, errorspkg.ErrInternal
	}

	return s, nil
}

const getQuery = `
SELECT ` + columns + `
FROM settlements
WHERE id = $1
`

// Get returns the settlement with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Settlement, error) {
	l := zerolog.Ctx(ctx)

	var s domain.Settlement

	if err := scanSettlement(r.db.QueryRowContext(ctx, getQuery, id), &s); err != nil {
		if err == sql.ErrNoRows {
			return domain.Settlement{}, domain.ErrSettlementNotFound
		}

		l.Error().Err(err).Send()

		return domain.Settlement{}, errorspkg.ErrInternal
	}

	return s, nil
}

const listQuery = `
SELECT ` + columns + `
FROM settlements
WHERE group_id = $1
ORDER BY created_at DESC, id DESC
`

// List returns the group settlements, newest first.
func (r *RepoPGS) List(ctx context.Context, groupID int32) ([]domain.Settlement, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, groupID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Settlement{}

	for rows.Next() {
		var s domain.Settlement
		if err := scanSettlement(rows, &s); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, s)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const markPaidQuery = `
UPDATE settlements
SET is_paid = true, paid_at = now()
WHERE id = $1 AND NOT is_paid
RETURNING ` + columns

// MarkPaid marks the unpaid settlement as paid and returns it.
func (r *RepoPGS) MarkPaid(ctx context.Context, id int64) (domain.Settlement, error) {
	l := zerolog.Ctx(ctx)

	var s domain.Settlement

	err := scanSettlement(r.db.QueryRowContext(ctx, markPaidQuery, id), &s)
	if err == nil {
		return s, nil
	}

	if err != sql.ErrNoRows {
		l.Error().Err(err).Send()
		return domain.Settlement{}, errorspkg.ErrInternal
	}

	// Either there is no such settlement or it has been paid already.
	if _, err := r.Get(ctx, id); err != nil {
		return domain.Settlement{}, err
	}

	return domain.Settlement{}, domain.ErrSettlementAlreadyPaid
}

const groupExistsQuery = `
SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)
`

// Snapshot reads the group members and expenses with their splits
// inside one read-only repeatable-read transaction.
func (r *RepoPGS) Snapshot(ctx context.Context, groupID int32) (domain.GroupSnapshot, error) {
	l := zerolog.Ctx(ctx)

	snapshot := domain.GroupSnapshot{GroupID: groupID}

	err := dbpkg.ExecTx(ctx, r.db, dbpkg.ReadSnapshot, func(q dbpkg.SQLInterface) error {
		var exists bool
		if err := q.QueryRowContext(ctx, groupExistsQuery, groupID).Scan(&exists); err != nil {
			l.Error().Err(err).Send()
			return errorspkg.ErrInternal
		}

		if !exists {
			return domain.ErrGroupNotFound
		}

		var err error

		snapshot.Members, err = grouprepo.NewRepoPGS(q).ListMembers(ctx, groupID)
		if err != nil {
			return err
		}

		snapshot.Expenses, err = expenserepo.NewRepoPGS(q).ListAll(ctx, groupID)

		return err
	})

	if err != nil {
		return domain.GroupSnapshot{}, err
	}

	return snapshot, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSettlement(row scanner, s *domain.Settlement) error {
	var paidAt sql.NullTime

	if err := row.Scan(
		&s.ID,
		&s.GroupID,
		&s.Payer,
		&s.Receiver,
		&s.Amount,
		&s.Currency,
		&s.IsPaid,
		&s.CreatedAt,
		&paidAt,
	); err != nil {
		return err
	}

	if paidAt.Valid {
		s.PaidAt = &paidAt.Time
	}

	return nil
}
