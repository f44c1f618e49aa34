package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrSubmissionExists   = errors.New("submission already exists for this participant")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrWinnerExists       = errors.New("contest already has a winning submission")
)

type Submission struct {
	ID               uint   `gorm:"primaryKey"`
	ContestID        uint   `gorm:"not null;uniqueIndex:idx_submissions_contest_participant;uniqueIndex:idx_submissions_one_winner,where:is_winner = true"`
	ParticipantEmail string `gorm:"not null;uniqueIndex:idx_submissions_contest_participant;index"`
	ParticipantName  string
	ParticipantPhoto string
	Content          string    `gorm:"type:text;not null"`
	IsWinner         bool      `gorm:"not null;default:false"`
	SubmittedAt      time.Time `gorm:"not null"`
}

type SubmissionDAO struct {
	db *gorm.DB
}

func NewSubmissionDAO(db *gorm.DB) *SubmissionDAO {
	return &SubmissionDAO{
		db: db,
	}
}

func (d *SubmissionDAO) Insert(ctx context.Context, submission Submission) (Submission, error) {
	result := d.db.WithContext(ctx).Create(&submission)
	if result.Error != nil {
		return Submission{}, translateErr(result.Error, ErrSubmissionExists, nil)
	}

	return submission, nil
}

func (d *SubmissionDAO) FindByID(ctx context.Context, id uint) (Submission, error) {
	var submission Submission

	result := d.db.WithContext(ctx).First(&submission, id)
	if result.Error != nil {
		return Submission{}, translateErr(result.Error, nil, ErrSubmissionNotFound)
	}

	return submission, nil
}

func (d *SubmissionDAO) FindByContestIDs(ctx context.Context, contestIDs []uint) ([]Submission, error) {
	var submissions []Submission
	if len(contestIDs) == 0 {
		return submissions, nil
	}

	result := d.db.WithContext(ctx).
		Where("contest_id IN ?", contestIDs).
		Order("submitted_at ASC").
		Find(&submissions)
	if result.Error != nil {
		return nil, result.Error
	}

	return submissions, nil
}

func (d *SubmissionDAO) FindByParticipant(ctx context.Context, email string) ([]Submission, error) {
	var submissions []Submission

	result := d.db.WithContext(ctx).
		Where("participant_email = ?", email).
		Order("submitted_at DESC").
		Find(&submissions)
	if result.Error != nil {
		return nil, result.Error
	}

	return submissions, nil
}

func (d *SubmissionDAO) HasWinner(ctx context.Context, contestID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Submission{}).
		Where("contest_id = ? AND is_winner = ?", contestID, true).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// MarkWinner flips is_winner on one submission. The partial unique index
// rejects a second winner for the same contest.
func (d *SubmissionDAO) MarkWinner(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).
		Model(&Submission{}).
		Where("id = ?", id).
		Update("is_winner", true)
	if result.Error != nil {
		return translateErr(result.Error, ErrWinnerExists, nil)
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}

	return nil
}

func (d *SubmissionDAO) DeleteByContest(ctx context.Context, contestID uint) error {
	return d.db.WithContext(ctx).Where("contest_id = ?", contestID).Delete(&Submission{}).Error
}
