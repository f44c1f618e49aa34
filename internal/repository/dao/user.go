package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`

	Name  string `gorm:"not null;default:''"`
	Photo string `gorm:"not null;default:''"`
	Role  string `gorm:"not null;default:user;index"` // "user", "creator" or "admin"

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		return User{}, translateErr(result.Error, ErrUserEmailExists, nil)
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		return User{}, translateErr(result.Error, nil, ErrUserNotFound)
	}

	return user, nil
}

func (d *UserDAO) UpdateProfile(ctx context.Context, email, name, photo string) (User, error) {
	result := d.db.WithContext(ctx).
		Model(&User{}).
		Where("email = ?", email).
		Updates(map[string]any{"name": name, "photo": photo})
	if result.Error != nil {
		return User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return User{}, ErrUserNotFound
	}

	return d.FindByEmail(ctx, email)
}

// UpdateRole rewrites the role of a single user row.
func (d *UserDAO) UpdateRole(ctx context.Context, email, role string) error {
	result := d.db.WithContext(ctx).
		Model(&User{}).
		Where("email = ?", email).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (d *UserDAO) List(ctx context.Context, offset, limit int) ([]User, int64, error) {
	var (
		users []User
		total int64
	)

	if err := d.db.WithContext(ctx).Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := d.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&users)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return users, total, nil
}
