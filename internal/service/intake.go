package service

import (
	"context"
	"strings"

	"LetterHunt/internal/model"
	"LetterHunt/internal/repository"
	"LetterHunt/internal/storage"

	"github.com/sirupsen/logrus"
)

// allowedImageTypes matches the original upload filter: common browser
// image formats only.
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// SubmitRequest carries one player upload into the intake flow.
type SubmitRequest struct {
	PlayerName     string
	PlayerWallet   string // optional
	SubmissionName string
	Letter         string // letter the player believes is active
	ImageBytes     []byte
	ImageMimeType  string
	ImageExt       string // original filename extension, may be empty
}

// IntakeService validates a player upload against the active letter
// and persists it: blob first, record second. All validation happens
// before any side effect; a failed record insert triggers a
// compensating blob delete.
type IntakeService struct {
	states      repository.GameStateRepository
	submissions repository.SubmissionRepository
	winners     repository.WinnerRepository
	blobs       storage.BlobStore
	maxSize     int64
	logger      *logrus.Logger
}

// NewIntakeService creates an IntakeService. maxSize bounds the image
// payload in bytes.
func NewIntakeService(
	states repository.GameStateRepository,
	submissions repository.SubmissionRepository,
	winners repository.WinnerRepository,
	blobs storage.BlobStore,
	maxSize int64,
	logger *logrus.Logger,
) *IntakeService {
	return &IntakeService{
		states:      states,
		submissions: submissions,
		winners:     winners,
		blobs:       blobs,
		maxSize:     maxSize,
		logger:      logger,
	}
}

// Submit runs the full intake flow and returns the pending submission.
func (s *IntakeService) Submit(ctx context.Context, req *SubmitRequest) (*model.Submission, error) {
	// 1. Image payload checks.
	if len(req.ImageBytes) == 0 {
		return nil, validationErr(CodeMissingImage, "No image file provided. Please capture and submit a photo.")
	}
	if _, ok := allowedImageTypes[strings.ToLower(req.ImageMimeType)]; !ok {
		return nil, validationErr(CodeUnsupportedMedia, "Only image files are allowed (jpeg, png, gif, webp)")
	}
	if int64(len(req.ImageBytes)) > s.maxSize {
		return nil, validationErr(CodePayloadTooLarge, "File too large. Maximum size is %d MB.", s.maxSize>>20)
	}

	// 2. Required fields.
	if req.PlayerName == "" || req.SubmissionName == "" || req.Letter == "" {
		return nil, validationErr(CodeMissingField, "Missing required fields: playerName, submissionName, letter")
	}

	// 3. Active game.
	state, err := s.states.GetActive(ctx)
	if err != nil {
		return nil, dependencyErr("load game state", err)
	}
	if state == nil {
		return nil, conflictErr(CodeNoActiveGame, "No active game")
	}

	// 4. Claimed letter must match the active one.
	if !strings.EqualFold(req.Letter, state.CurrentLetter) {
		return nil, conflictErr(CodeLetterMismatch, "Letter mismatch. Current letter is %s", state.CurrentLetter)
	}

	// 5. Naming rule, case-insensitive.
	if !strings.HasPrefix(strings.ToUpper(req.SubmissionName), strings.ToUpper(state.CurrentLetter)) {
		return nil, validationErr(CodeNamingViolation,
			"Submission name %q must start with letter %q", req.SubmissionName, state.CurrentLetter)
	}

	// 6. Letter still open.
	existing, err := s.winners.GetByLetter(ctx, state.CurrentLetter)
	if err != nil {
		return nil, dependencyErr("check existing winner", err)
	}
	if existing != nil {
		return nil, &ConflictError{
			Code:           CodeLetterAlreadyWon,
			Message:        "A winner already exists for this letter",
			ExistingWinner: existing,
		}
	}

	// All checks passed; now the two-phase write. Blob first, record
	// second, compensating delete in between on failure.
	key := storage.NewObjectKey(req.ImageExt)
	imageURL, err := s.blobs.Put(ctx, key, req.ImageBytes, req.ImageMimeType)
	if err != nil {
		return nil, dependencyErr("upload image", err)
	}

	var wallet *string
	if req.PlayerWallet != "" {
		w := req.PlayerWallet
		wallet = &w
	}
	sub := &model.Submission{
		PlayerName:     req.PlayerName,
		PlayerWallet:   wallet,
		Letter:         state.CurrentLetter,
		ImageName:      key,
		ImagePath:      imageURL,
		SubmissionName: req.SubmissionName,
		Status:         model.StatusPending,
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		// The blob is orphaned; remove it best-effort without masking
		// the original failure.
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.WithError(delErr).WithField("key", key).Error("compensating blob delete failed")
		} else {
			s.logger.WithField("key", key).Info("deleted orphaned blob after failed submission insert")
		}
		return nil, dependencyErr("create submission", err)
	}

	s.logger.WithField("submission_id", sub.ID).
		WithField("player", sub.PlayerName).
		WithField("letter", sub.Letter).
		Info("submission received")
	return sub, nil
}
