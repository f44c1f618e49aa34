package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrContestExists   = errors.New("contest with this name already exists for the creator")
	ErrContestNotFound = errors.New("contest not found")
)

type Contest struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null;uniqueIndex:idx_contests_name_creator"`
	CreatorEmail string `gorm:"not null;uniqueIndex:idx_contests_name_creator;index"`
	Slug         string `gorm:"not null;default:''"`
	Description  string `gorm:"type:text"`
	Image        string
	Category     string          `gorm:"index"`
	Instructions string          `gorm:"type:text"`
	EntryFee     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PrizeMoney   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Deadline     time.Time       `gorm:"not null"`
	Status       string          `gorm:"not null;default:pending;index"` // "pending", "approved", "rejected" or "completed"
	Winner       Winner          `gorm:"embedded;embeddedPrefix:winner_"`
	Participants []Participant   `gorm:"foreignKey:ContestID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Winner is stored on the contest row so completing a contest is one write.
type Winner struct {
	Email      string `gorm:"index"`
	Name       string
	Photo      string
	DeclaredAt *time.Time
}

type Participant struct {
	ContestID uint      `gorm:"primaryKey;autoIncrement:false"`
	Email     string    `gorm:"primaryKey;index"`
	JoinedAt  time.Time `gorm:"autoCreateTime"`
}

func (Participant) TableName() string {
	return "contest_participants"
}

type ContestQuery struct {
	Search   string
	Category string
	Status   string
	Offset   int
	Limit    int
}

func (q ContestQuery) scope(db *gorm.DB) *gorm.DB {
	if q.Search != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q.Search)+"%")
	}
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	return db
}

type ContestDAO struct {
	db *gorm.DB
}

func NewContestDAO(db *gorm.DB) *ContestDAO {
	return &ContestDAO{
		db: db,
	}
}

func (d *ContestDAO) Insert(ctx context.Context, contest Contest) (Contest, error) {
	result := d.db.WithContext(ctx).Omit("Participants").Create(&contest)
	if result.Error != nil {
		return Contest{}, translateErr(result.Error, ErrContestExists, nil)
	}

	return contest, nil
}

func (d *ContestDAO) FindByID(ctx context.Context, id uint) (Contest, error) {
	var contest Contest

	result := d.db.WithContext(ctx).Preload("Participants").First(&contest, id)
	if result.Error != nil {
		return Contest{}, translateErr(result.Error, nil, ErrContestNotFound)
	}

	return contest, nil
}

func (d *ContestDAO) List(ctx context.Context, q ContestQuery) ([]Contest, int64, error) {
	var (
		contests []Contest
		total    int64
	)

	if err := q.scope(d.db.WithContext(ctx).Model(&Contest{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := q.scope(d.db.WithContext(ctx)).
		Preload("Participants").
		Order("created_at DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&contests)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return contests, total, nil
}

func (d *ContestDAO) FindByCreator(ctx context.Context, email string) ([]Contest, error) {
	var contests []Contest

	result := d.db.WithContext(ctx).
		Preload("Participants").
		Where("creator_email = ?", email).
		Order("created_at DESC").
		Find(&contests)
	if result.Error != nil {
		return nil, result.Error
	}

	return contests, nil
}

func (d *ContestDAO) FindByParticipant(ctx context.Context, email string) ([]Contest, error) {
	var contests []Contest

	result := d.db.WithContext(ctx).
		Preload("Participants").
		Joins("JOIN contest_participants cp ON cp.contest_id = contests.id").
		Where("cp.email = ?", email).
		Order("contests.deadline ASC").
		Find(&contests)
	if result.Error != nil {
		return nil, result.Error
	}

	return contests, nil
}

func (d *ContestDAO) FindByWinner(ctx context.Context, email string) ([]Contest, error) {
	var contests []Contest

	result := d.db.WithContext(ctx).
		Preload("Participants").
		Where("winner_email = ? AND status = ?", email, "completed").
		Order("winner_declared_at DESC").
		Find(&contests)
	if result.Error != nil {
		return nil, result.Error
	}

	return contests, nil
}

// UpdateIfStatus applies fields only while the contest still has the given
// status. It reports whether a row was changed.
func (d *ContestDAO) UpdateIfStatus(ctx context.Context, id uint, status string, fields map[string]any) (bool, error) {
	result := d.db.WithContext(ctx).
		Model(&Contest{}).
		Where("id = ? AND status = ?", id, status).
		Updates(fields)
	if result.Error != nil {
		return false, translateErr(result.Error, ErrContestExists, nil)
	}

	return result.RowsAffected == 1, nil
}

// CompleteWithWinner moves an approved contest to completed and stores the
// winner snapshot in the same statement.
func (d *ContestDAO) CompleteWithWinner(ctx context.Context, id uint, winner Winner) (bool, error) {
	return d.UpdateIfStatus(ctx, id, "approved", map[string]any{
		"status":             "completed",
		"winner_email":       winner.Email,
		"winner_name":        winner.Name,
		"winner_photo":       winner.Photo,
		"winner_declared_at": winner.DeclaredAt,
	})
}

// AddParticipant is a set-union: enrolling twice leaves one row.
func (d *ContestDAO) AddParticipant(ctx context.Context, contestID uint, email string) error {
	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Participant{ContestID: contestID, Email: email})

	return result.Error
}

func (d *ContestDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contest_id = ?", id).Delete(&Participant{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Contest{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrContestNotFound
		}

		return nil
	})
}

// DeleteIfStatus deletes the contest only while it has the given status.
func (d *ContestDAO) DeleteIfStatus(ctx context.Context, id uint, status string) (bool, error) {
	deleted := false

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("status = ?", status).Delete(&Contest{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true

		return tx.Where("contest_id = ?", id).Delete(&Participant{}).Error
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}
