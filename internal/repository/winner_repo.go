package repository

import (
	"context"
	"errors"

	"LetterHunt/internal/model"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WinnerRepository persists winner records. The winners.letter unique
// index backs the one-winner-per-letter rule; Create surfaces the
// violation through IsDuplicateKey.
type WinnerRepository interface {
	// GetByLetter returns nil when the letter has no winner yet.
	GetByLetter(ctx context.Context, letter string) (*model.Winner, error)
	// List returns winners newest-won-first.
	List(ctx context.Context) ([]*model.Winner, error)
	Create(ctx context.Context, winner *model.Winner) error
	// MarkRewardDistributed stores the raw payout receipt on the winner
	// owning submissionID and flips reward_distributed.
	MarkRewardDistributed(ctx context.Context, submissionID uint64, receipt datatypes.JSON) error
}

type winnerRepository struct {
	db *gorm.DB
}

// NewWinnerRepository creates a gorm-backed WinnerRepository.
func NewWinnerRepository(db *gorm.DB) WinnerRepository {
	return &winnerRepository{db: db}
}

func (r *winnerRepository) GetByLetter(ctx context.Context, letter string) (*model.Winner, error) {
	var winner model.Winner
	err := r.db.WithContext(ctx).Where("letter = ?", letter).First(&winner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &winner, nil
}

func (r *winnerRepository) List(ctx context.Context) ([]*model.Winner, error) {
	var list []*model.Winner
	if err := r.db.WithContext(ctx).Order("won_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *winnerRepository) Create(ctx context.Context, winner *model.Winner) error {
	return r.db.WithContext(ctx).Create(winner).Error
}

func (r *winnerRepository) MarkRewardDistributed(ctx context.Context, submissionID uint64, receipt datatypes.JSON) error {
	return r.db.WithContext(ctx).Model(&model.Winner{}).
		Where("submission_id = ?", submissionID).
		Updates(map[string]interface{}{
			"nft_token":          receipt,
			"reward_distributed": true,
		}).Error
}

// IsDuplicateKey reports whether err is a unique-constraint violation,
// either translated by gorm or raw from the postgres driver.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
