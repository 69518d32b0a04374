// Package memberrepo manages repository layer of members.
package memberrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/pkg/dbpkg"
	"github.com/go-petr/pet-split/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates member repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns member RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
	members (username, full_name, email)
VALUES
	($1, $2, $3)
RETURNING username, full_name, email, created_at
`

// Create creates the member and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateMemberParams) (domain.Member, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.Username, arg.FullName, arg.Email)

	var m domain.Member

	err := row.Scan(
		&m.Username,
		&m.FullName,
		&m.Email,
		&m.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "members_pkey":
				return domain.Member{}, domain.ErrUsernameAlreadyExists
			case "members_email_key":
				return domain.Member{}, domain.ErrEmailAlreadyExists
			}
		}

		return domain.Member{}, errorspkg.ErrInternal
	}

	return m, nil
}

const getQuery = `
SELECT username, full_name, email, created_at
FROM members
WHERE username = $1
`

// Get returns the member with the given username.
func (r *RepoPGS) Get(ctx context.Context, username string) (domain.Member, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, username)

	var m domain.Member

	err := row.Scan(
		&m.Username,
		&m.FullName,
		&m.Email,
		&m.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Member{}, domain.ErrMemberNotFound
		}

		l.Error().Err(err).Send()

		return domain.Member{}, errorspkg.ErrInternal
	}

	return m, nil
}
