// Package grouprepo manages repository layer of groups.
package grouprepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/pkg/dbpkg"
	"github.com/go-petr/pet-split/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates group repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns group RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
	groups (name, description, admin)
VALUES
	($1, $2, $3)
RETURNING id, name, description, admin, created_at
`

// Create creates the group and adds its admin as the first member within a single transaction.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateGroupParams) (domain.Group, error) {
	l := zerolog.Ctx(ctx)

	var g domain.Group

	err := dbpkg.ExecTx(ctx, r.db, nil, func(q dbpkg.SQLInterface) error {
		row := q.QueryRowContext(ctx, createQuery, arg.Name, arg.Description, arg.Admin)

		if err := row.Scan(
			&g.ID,
			&g.Name,
			&g.Description,
			&g.Admin,
			&g.CreatedAt,
		); err != nil {
			return err
		}

		return NewRepoPGS(q).AddMember(ctx, g.ID, g.Admin)
	})

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if err == domain.ErrMemberNotFound {
			return domain.Group{}, err
		}

		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "groups_admin_fkey" {
			return domain.Group{}, domain.ErrMemberNotFound
		}

		return domain.Group{}, errorspkg.ErrInternal
	}

	g.Members = []string{g.Admin}
	g.TotalExpenses = "0.00"

	return g, nil
}

const getQuery = `
SELECT
	g.id, g.name, g.description, g.admin, g.created_at,
	` + totalColumn + `
FROM groups g
WHERE g.id = $1
`

const totalColumn = `round(COALESCE((SELECT SUM(e.amount) FROM expenses e WHERE e.group_id = g.id), 0), 2)`

// Get returns the group with the given id together with its members.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.Group, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var g domain.Group

	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&g.Admin,
		&g.CreatedAt,
		&g.TotalExpenses,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Group{}, domain.ErrGroupNotFound
		}

		l.Error().Err(err).Send()

		return domain.Group{}, errorspkg.ErrInternal
	}

	g.Members, err = r.ListMembers(ctx, id)
	if err != nil {
		return domain.Group{}, err
	}

	return g, nil
}

const updateQuery = `
UPDATE groups
SET
	name = COALESCE($2, name),
	description = COALESCE($3, description)
WHERE id = $1
`

// Update changes the name and description of the group and returns it.
func (r *RepoPGS) Update(ctx context.Context, arg domain.UpdateGroupParams) (domain.Group, error) {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, updateQuery, arg.ID, arg.Name, arg.Description)
	if err != nil {
		l.Error().Err(err).Msgf("Update(ctx, %+v)", arg)
		return domain.Group{}, errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Group{}, errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.Group{}, domain.ErrGroupNotFound
	}

	return r.Get(ctx, arg.ID)
}

const memberExistsQuery = `
SELECT EXISTS (SELECT 1 FROM members WHERE username = $1)
`

const listByMemberQuery = `
SELECT
	g.id, g.name, g.description, g.admin, g.created_at,
	` + totalColumn + `,
	ARRAY(
		SELECT m.username
		FROM group_members m
		WHERE m.group_id = g.id
		ORDER BY m.joined_at, m.username
	)
FROM groups g
JOIN group_members gm ON gm.group_id = g.id
WHERE gm.username = $1
ORDER BY g.id
`

// ListByMember returns the groups the member belongs to, oldest first.
func (r *RepoPGS) ListByMember(ctx context.Context, username string) ([]domain.Group, error) {
	l := zerolog.Ctx(ctx)

	var exists bool
	if err := r.db.QueryRowContext(ctx, memberExistsQuery, username).Scan(&exists); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if !exists {
		return nil, domain.ErrMemberNotFound
	}

	rows, err := r.db.QueryContext(ctx, listByMemberQuery, username)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	groups := []domain.Group{}

	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(
			&g.ID,
			&g.Name,
			&g.Description,
			&g.Admin,
			&g.CreatedAt,
			&g.TotalExpenses,
			pq.Array(&g.Members),
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return groups, nil
}

const addMemberQuery = `
INSERT INTO
	group_members (group_id, username)
VALUES
	($1, $2)
ON CONFLICT (group_id, username) DO NOTHING
`

// AddMember adds the member to the group. Adding an existing member is a no-op.
func (r *RepoPGS) AddMember(ctx context.Context, groupID int32, username string) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, addMemberQuery, groupID, username); err != nil {
		l.Error().Err(err).Msgf("AddMember(ctx, %v, %v)", groupID, username)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "group_members_group_id_fkey":
				return domain.ErrGroupNotFound
			case "group_members_username_fkey":
				return domain.ErrMemberNotFound
			}
		}

		return errorspkg.ErrInternal
	}

	return nil
}

const listMembersQuery = `
SELECT username
FROM group_members
WHERE group_id = $1
ORDER BY joined_at, username
`

// ListMembers returns usernames of the group members in join order.
func (r *RepoPGS) ListMembers(ctx context.Context, groupID int32) ([]string, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listMembersQuery, groupID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	members := []string{}

	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return members, nil
}

const deleteQuery = `
DELETE FROM groups
WHERE id = $1
`

// Delete removes the group with the given id. Its expenses, splits and settlements go with it.
func (r *RepoPGS) Delete(ctx context.Context, id int32) error {
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
		return domain.ErrGroupNotFound
	}

	return nil
}
