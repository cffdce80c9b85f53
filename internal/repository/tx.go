package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxManager runs fn with submission and winner repositories bound to a
// single transaction. The approve flow uses it so the winner pre-check,
// the submission status flip and the winner insert commit or roll back
// as one unit.
type TxManager interface {
	InTx(ctx context.Context, fn func(subs SubmissionRepository, winners WinnerRepository) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a gorm-backed TxManager.
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) InTx(ctx context.Context, fn func(subs SubmissionRepository, winners WinnerRepository) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewSubmissionRepository(tx), NewWinnerRepository(tx))
	})
}
