package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/contestify/contest-api/internal/domain"
	"github.com/contestify/contest-api/internal/repository"
)

type RoleReader interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// AdminPolicy gates elevated operations on the principal's stored role. A
// valid principal without the admin role is Forbidden, never Unauthorized.
type AdminPolicy struct {
	users RoleReader
}

func NewAdminPolicy(users RoleReader) *AdminPolicy {
	return &AdminPolicy{
		users: users,
	}
}

func (p *AdminPolicy) RequireAdmin(ctx context.Context, principal string) (domain.User, error) {
	user, err := p.Principal(ctx, principal)
	if err != nil {
		return domain.User{}, err
	}
	if user.Role != domain.RoleAdmin {
		return domain.User{}, ErrAdminRequired
	}

	return user, nil
}

// Principal loads the principal's user record. A principal with no record is
// returned with an empty role.
func (p *AdminPolicy) Principal(ctx context.Context, principal string) (domain.User, error) {
	user, err := p.users.FindByEmail(ctx, principal)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{Email: principal}, nil
		}
		return domain.User{}, fmt.Errorf("p.users.FindByEmail -> %w", err)
	}

	return user, nil
}
