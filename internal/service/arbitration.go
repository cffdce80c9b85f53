package service

import (
	"context"
	"errors"
	"time"

	"LetterHunt/internal/model"
	"LetterHunt/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RewardDispatcher issues the payout for a freshly created winner and
// records the receipt. Its failure never gates the win itself.
type RewardDispatcher interface {
	Dispatch(ctx context.Context, winner *model.Winner) (datatypes.JSON, error)
}

// DecisionResult reports what a decision changed. RewardErr is set when
// the approval stood but the payout failed; callers surface that as a
// partial success, never as a failed approval.
type DecisionResult struct {
	Submission    *model.Submission
	Winner        *model.Winner
	RewardReceipt datatypes.JSON
	RewardErr     error
}

// ArbitrationService turns admin decisions into terminal submission
// states and, on approval, the unique winner for the letter.
type ArbitrationService struct {
	submissions repository.SubmissionRepository
	winners     repository.WinnerRepository
	tx          repository.TxManager
	dispatcher  RewardDispatcher
	logger      *logrus.Logger
}

// NewArbitrationService creates an ArbitrationService.
func NewArbitrationService(
	submissions repository.SubmissionRepository,
	winners repository.WinnerRepository,
	tx repository.TxManager,
	dispatcher RewardDispatcher,
	logger *logrus.Logger,
) *ArbitrationService {
	return &ArbitrationService{
		submissions: submissions,
		winners:     winners,
		tx:          tx,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Decide applies an approve/reject decision to one submission.
//
// Rejection is idempotent and never creates a winner. Approval flips
// the submission, inserts the winner and then dispatches the reward;
// the status flip and the winner insert share one transaction so a
// conflict leaves the submission untouched. A rejected submission may
// be approved later as long as its letter is still unwon.
func (s *ArbitrationService) Decide(ctx context.Context, submissionID uint64, approved bool, notes *string) (*DecisionResult, error) {
	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "submission", ID: submissionID}
		}
		return nil, dependencyErr("load submission", err)
	}

	if !approved {
		return s.reject(ctx, sub, notes)
	}
	return s.approve(ctx, sub, notes)
}

func (s *ArbitrationService) reject(ctx context.Context, sub *model.Submission, notes *string) (*DecisionResult, error) {
	if err := s.submissions.UpdateDecision(ctx, sub.ID, model.StatusRejected, nil, notes); err != nil {
		return nil, dependencyErr("reject submission", err)
	}
	sub.Status = model.StatusRejected
	sub.ApprovedAt = nil
	sub.AdminNotes = notes
	s.logger.WithField("submission_id", sub.ID).Info("submission rejected")
	return &DecisionResult{Submission: sub}, nil
}

func (s *ArbitrationService) approve(ctx context.Context, sub *model.Submission, notes *string) (*DecisionResult, error) {
	now := time.Now().UTC()
	winner := &model.Winner{
		SubmissionID: &sub.ID,
		PlayerName:   sub.PlayerName,
		PlayerWallet: sub.PlayerWallet,
		Letter:       sub.Letter,
	}

	err := s.tx.InTx(ctx, func(subs repository.SubmissionRepository, winners repository.WinnerRepository) error {
		existing, err := winners.GetByLetter(ctx, sub.Letter)
		if err != nil {
			return err
		}
		if existing != nil {
			return &ConflictError{
				Code:           CodeLetterAlreadyWon,
				Message:        "A winner already exists for this letter",
				ExistingWinner: existing,
			}
		}
		if err := subs.UpdateDecision(ctx, sub.ID, model.StatusApproved, &now, notes); err != nil {
			return err
		}
		// The unique index on winners.letter closes the window between
		// the pre-check and this insert under concurrent approvals.
		return winners.Create(ctx, winner)
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		if repository.IsDuplicateKey(err) {
			// Lost the race to a concurrent approval; report the holder.
			existing, lookupErr := s.winners.GetByLetter(ctx, sub.Letter)
			if lookupErr != nil {
				s.logger.WithError(lookupErr).Warn("could not load winner after duplicate-key conflict")
			}
			return nil, &ConflictError{
				Code:           CodeLetterAlreadyWon,
				Message:        "A winner already exists for this letter",
				ExistingWinner: existing,
			}
		}
		return nil, dependencyErr("approve submission", err)
	}

	sub.Status = model.StatusApproved
	sub.ApprovedAt = &now
	sub.AdminNotes = notes
	s.logger.WithField("submission_id", sub.ID).
		WithField("winner_id", winner.ID).
		WithField("letter", winner.Letter).
		Info("submission approved, winner declared")

	result := &DecisionResult{Submission: sub, Winner: winner}

	receipt, dispatchErr := s.dispatcher.Dispatch(ctx, winner)
	if dispatchErr != nil {
		// The win is final; only the payout bookkeeping stays pending.
		s.logger.WithError(dispatchErr).
			WithField("winner_id", winner.ID).
			Warn("reward dispatch failed, winner stands")
		result.RewardErr = dispatchErr
		return result, nil
	}
	winner.NFTToken = receipt
	winner.RewardDistributed = true
	result.RewardReceipt = receipt
	return result, nil
}
