package repository

import (
	"context"
	"fmt"

	"github.com/contestify/contest-api/internal/domain"
	"github.com/contestify/contest-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	UpdateProfile(ctx context.Context, email, name, photo string) (dao.User, error)
	UpdateRole(ctx context.Context, email, role string) error
	List(ctx context.Context, offset, limit int) ([]dao.User, int64, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}

	created, err := r.dao.Insert(ctx, dao.User{
		Email:    user.Email,
		Password: user.Password,
		Name:     user.Name,
		Photo:    user.Photo,
		Role:     string(role),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, email, name, photo string) (domain.User, error) {
	updated, err := r.dao.UpdateProfile(ctx, email, name, photo)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.UpdateProfile -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, email string, role domain.Role) error {
	if err := r.dao.UpdateRole(ctx, email, string(role)); err != nil {
		return fmt.Errorf("r.dao.UpdateRole -> %w", err)
	}

	return nil
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	found, total, err := r.dao.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	users := make([]domain.User, len(found))
	for i, u := range found {
		users[i] = r.daoToDomain(u)
	}

	return users, total, nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Name:      u.Name,
		Photo:     u.Photo,
		Role:      domain.Role(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
