package repository

import (
	"context"
	"errors"

	"LetterHunt/internal/model"

	"gorm.io/gorm"
)

// GameStateRepository persists the active-letter state.
type GameStateRepository interface {
	// GetActive returns the single active row, or nil when no rotation
	// has happened yet.
	GetActive(ctx context.Context) (*model.GameState, error)
	// Rotate deactivates the current active row (if any) and inserts a
	// new active row for letter, as one transaction. Concurrent readers
	// never observe a half-rotated state.
	Rotate(ctx context.Context, letter string) (*model.GameState, error)
	Create(ctx context.Context, state *model.GameState) error
}

type gameStateRepository struct {
	db *gorm.DB
}

// NewGameStateRepository creates a gorm-backed GameStateRepository.
func NewGameStateRepository(db *gorm.DB) GameStateRepository {
	return &gameStateRepository{db: db}
}

func (r *gameStateRepository) GetActive(ctx context.Context) (*model.GameState, error) {
	var state model.GameState
	err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *gameStateRepository) Rotate(ctx context.Context, letter string) (*model.GameState, error) {
	state := &model.GameState{CurrentLetter: letter, IsActive: true}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.GameState{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(state).Error
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (r *gameStateRepository) Create(ctx context.Context, state *model.GameState) error {
	return r.db.WithContext(ctx).Create(state).Error
}
