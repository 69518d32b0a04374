// Package memberservice manages business logic layer of members.
package memberservice

import (
	"context"

	"github.com/go-petr/pet-split/internal/domain"
)

// Repo provides data access layer interface needed by member service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package memberservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateMemberParams) (domain.Member, error)
	Get(ctx context.Context, username string) (domain.Member, error)
}

// Service facilitates member service layer logic.
type Service struct {
	repo Repo
}

// New return member service struct to manage member bussines logic.
func New(mr Repo) *Service {
	return &Service{
		repo: mr,
	}
}

// Create creates and returns member.
func (s *Service) Create(ctx context.Context, arg domain.CreateMemberParams) (domain.Member, error) {
	return s.repo.Create(ctx, arg)
}

// Get returns the member with the given username.
func (s *Service) Get(ctx context.Context, username string) (domain.Member, error) {
	return s.repo.Get(ctx, username)
}
