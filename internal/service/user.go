package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/contestify/contest-api/internal/domain"
	"github.com/contestify/contest-api/internal/repository"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateProfile(ctx context.Context, email, name, photo string) (domain.User, error)
	UpdateRole(ctx context.Context, email string, role domain.Role) error
	List(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
}

type UserService struct {
	repo     UserRepository
	policy   *AdminPolicy
	pageSize int
}

func NewUserService(repo UserRepository, policy *AdminPolicy, pageSize int) *UserService {
	return &UserService{
		repo:     repo,
		policy:   policy,
		pageSize: pageSize,
	}
}

func (s *UserService) GetProfile(ctx context.Context, principal string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, principal)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	return user, nil
}

// UpdateProfile changes display fields only. Roles are never self-managed.
func (s *UserService) UpdateProfile(ctx context.Context, principal, name, photo string) (domain.User, error) {
	current, err := s.GetProfile(ctx, principal)
	if err != nil {
		return domain.User{}, err
	}

	if strings.TrimSpace(name) == "" {
		name = current.Name
	}
	if strings.TrimSpace(photo) == "" {
		photo = current.Photo
	}

	updated, err := s.repo.UpdateProfile(ctx, principal, name, photo)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("s.repo.UpdateProfile -> %w", err)
	}

	return updated, nil
}

// ChangeRole lets an admin move another user to a different role.
func (s *UserService) ChangeRole(ctx context.Context, principal, email string, role domain.Role) (domain.User, error) {
	if _, err := s.policy.RequireAdmin(ctx, principal); err != nil {
		return domain.User{}, err
	}

	if !role.Valid() {
		return domain.User{}, ErrInvalidRole
	}

	if strings.EqualFold(principal, email) {
		return domain.User{}, ErrSelfRoleChange
	}

	return s.GrantRole(ctx, email, role)
}

// GrantRole sets a role without a principal check. It backs the
// grant-role command used to bootstrap the first administrator.
func (s *UserService) GrantRole(ctx context.Context, email string, role domain.Role) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, ErrInvalidRole
	}

	target, err := s.GetProfile(ctx, email)
	if err != nil {
		return domain.User{}, err
	}

	if target.Role == role {
		return domain.User{}, ErrRoleUnchanged
	}

	if err = s.repo.UpdateRole(ctx, target.Email, role); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("s.repo.UpdateRole -> %w", err)
	}
	target.Role = role

	return target, nil
}

func (s *UserService) ListUsers(ctx context.Context, principal string, page int) (domain.Page[domain.User], error) {
	if _, err := s.policy.RequireAdmin(ctx, principal); err != nil {
		return domain.Page[domain.User]{}, err
	}

	if page < 1 {
		page = 1
	}

	users, total, err := s.repo.List(ctx, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return domain.Page[domain.User]{}, fmt.Errorf("s.repo.List -> %w", err)
	}

	return domain.NewPage(users, total, page, s.pageSize), nil
}
