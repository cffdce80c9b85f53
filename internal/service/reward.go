package service

import (
	"context"
	"encoding/json"
	"fmt"

	"LetterHunt/internal/model"
	"LetterHunt/internal/repository"
	"LetterHunt/internal/reward"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// rewardClient is the slice of reward.Client the dispatcher needs;
// tests substitute a fake.
type rewardClient interface {
	Distribute(ctx context.Context, distributions []reward.Distribution) (json.RawMessage, error)
}

// RewardService dispatches one NFT share per winner and records the
// receipt on the winner row. It runs after the win is durable: every
// failure here leaves the winner and submission untouched.
type RewardService struct {
	client      rewardClient
	winners     repository.WinnerRepository
	shareAmount int
	logger      *logrus.Logger
}

// NewRewardService creates a RewardService paying shareAmount shares
// per winner.
func NewRewardService(client rewardClient, winners repository.WinnerRepository, shareAmount int, logger *logrus.Logger) *RewardService {
	if shareAmount <= 0 {
		shareAmount = 1
	}
	return &RewardService{
		client:      client,
		winners:     winners,
		shareAmount: shareAmount,
		logger:      logger,
	}
}

// Dispatch pays out the winner's share and stores the raw receipt.
// ErrNoWallet tells the caller the win stands but no payout is
// possible.
func (s *RewardService) Dispatch(ctx context.Context, winner *model.Winner) (datatypes.JSON, error) {
	if winner.PlayerWallet == nil || *winner.PlayerWallet == "" {
		return nil, ErrNoWallet
	}

	var submissionID uint64
	if winner.SubmissionID != nil {
		submissionID = *winner.SubmissionID
	}
	distribution := reward.Distribution{
		Recipient:     *winner.PlayerWallet,
		RecipientName: winner.PlayerName,
		RecipientID:   fmt.Sprintf("WINNER-%d", submissionID),
		Amount:        s.shareAmount,
		Note:          fmt.Sprintf("Game winner for letter %s submission", winner.Letter),
	}

	receipt, err := s.client.Distribute(ctx, []reward.Distribution{distribution})
	if err != nil {
		return nil, dependencyErr("distribute reward", err)
	}

	if winner.SubmissionID != nil {
		if err := s.winners.MarkRewardDistributed(ctx, *winner.SubmissionID, datatypes.JSON(receipt)); err != nil {
			// The payout went out; only our bookkeeping failed. Keep the
			// receipt in the response for manual follow-up.
			s.logger.WithError(err).
				WithField("submission_id", *winner.SubmissionID).
				Error("reward sent but receipt not recorded")
			return datatypes.JSON(receipt), dependencyErr("record reward receipt", err)
		}
	}

	s.logger.WithField("recipient", *winner.PlayerWallet).
		WithField("letter", winner.Letter).
		Info("reward distributed")
	return datatypes.JSON(receipt), nil
}
