package repository

import (
	"context"
	"time"

	"LetterHunt/internal/model"

	"gorm.io/gorm"
)

// SubmissionRepository persists player submissions. Rows are never
// deleted; the decision flow only flips status and review metadata.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	// GetByID returns gorm.ErrRecordNotFound for unknown ids.
	GetByID(ctx context.Context, id uint64) (*model.Submission, error)
	// ListByStatus returns submissions newest-submitted-first; an empty
	// status lists everything.
	ListByStatus(ctx context.Context, status string) ([]*model.Submission, error)
	ListByPlayer(ctx context.Context, playerName string) ([]*model.Submission, error)
	// UpdateDecision writes the review outcome on one submission.
	UpdateDecision(ctx context.Context, id uint64, status string, approvedAt *time.Time, notes *string) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a gorm-backed SubmissionRepository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint64) (*model.Submission, error) {
	var sub model.Submission
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepository) ListByStatus(ctx context.Context, status string) ([]*model.Submission, error) {
	db := r.db.WithContext(ctx).Model(&model.Submission{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	var list []*model.Submission
	if err := db.Order("submitted_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *submissionRepository) ListByPlayer(ctx context.Context, playerName string) ([]*model.Submission, error) {
	var list []*model.Submission
	err := r.db.WithContext(ctx).
		Where("player_name = ?", playerName).
		Order("submitted_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *submissionRepository) UpdateDecision(ctx context.Context, id uint64, status string, approvedAt *time.Time, notes *string) error {
	return r.db.WithContext(ctx).Model(&model.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"approved_at": approvedAt,
			"admin_notes": notes,
		}).Error
}
