// Package groupservice manages business logic layer of groups.
package groupservice

import (
	"context"

	"github.com/go-petr/pet-split/internal/domain"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by group service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package groupservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateGroupParams) (domain.Group, error)
	Get(ctx context.Context, id int32) (domain.Group, error)
	AddMember(ctx context.Context, groupID int32, username string) error
	ListMembers(ctx context.Context, groupID int32) ([]string, error)
	ListByMember(ctx context.Context, username string) ([]domain.Group, error)
	Update(ctx context.Context, arg domain.UpdateGroupParams) (domain.Group, error)
	Delete(ctx context.Context, id int32) error
}

// Service facilitates group service layer logic.
type Service struct {
	repo Repo
}

// New return group service struct to manage group bussines logic.
func New(gr Repo) *Service {
	return &Service{
		repo: gr,
	}
}

// Create creates the group with its admin as the only member.
func (s *Service) Create(ctx context.Context, arg domain.CreateGroupParams) (domain.Group, error) {
	return s.repo.Create(ctx, arg)
}

// Get returns the group with its members.
func (s *Service) Get(ctx context.Context, id int32) (domain.Group, error) {
	return s.repo.Get(ctx, id)
}

// AddMember adds the member to the group and returns the resulting member list.
func (s *Service) AddMember(ctx context.Context, groupID int32, username string) ([]string, error) {
	if err := s.repo.AddMember(ctx, groupID, username); err != nil {
		return nil, err
	}

	return s.repo.ListMembers(ctx, groupID)
}

// ListMembers returns the group members in join order.
func (s *Service) ListMembers(ctx context.Context, groupID int32) ([]string, error) {
	g, err := s.repo.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return g.Members, nil
}

// ListByMember returns the groups the member belongs to.
func (s *Service) ListByMember(ctx context.Context, username string) ([]domain.Group, error) {
	return s.repo.ListByMember(ctx, username)
}

// Update changes the group name and description when requested by its admin.
func (s *Service) Update(ctx context.Context, arg domain.UpdateGroupParams, actingMember string) (domain.Group, error) {
	l := zerolog.Ctx(ctx)

	g, err := s.repo.Get(ctx, arg.ID)
	if err != nil {
		return domain.Group{}, err
	}

	if g.Admin != actingMember {
		l.Info().Msgf("%v tried to update group %v owned by %v", actingMember, arg.ID, g.Admin)
		return domain.Group{}, domain.ErrNotGroupAdmin
	}

	if arg.Name == nil && arg.Description == nil {
		return g, nil
	}

	return s.repo.Update(ctx, arg)
}

// Delete removes the group when requested by its admin.
func (s *Service) Delete(ctx context.Context, id int32, actingMember string) error {
	l := zerolog.Ctx(ctx)

	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if g.Admin != actingMember {
		l.Info().Msgf("%v tried to delete group %v owned by %v", actingMember, id, g.Admin)
		return domain.ErrNotGroupAdmin
	}

	return s.repo.Delete(ctx, id)
}

// CheckMembers returns ErrGroupNotFound if the group does not exist and
// ErrNotGroupMember if any of the usernames is not in the group.
func (s *Service) CheckMembers(ctx context.Context, groupID int32, usernames ...string) error {
	l := zerolog.Ctx(ctx)

	g, err := s.repo.Get(ctx, groupID)
	if err != nil {
		return err
	}

	members := make(map[string]struct{}, len(g.Members))
	for _, m := range g.Members {
		members[m] = struct{}{}
	}

	for _, u := range usernames {
		if _, ok := members[u]; !ok {
			l.Info().Msgf("%v is not a member of group %v", u, groupID)
			return domain.ErrNotGroupMember
		}
	}

	return nil
}
