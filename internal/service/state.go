package service

import (
	"context"
	"regexp"
	"strings"

	"LetterHunt/internal/model"
	"LetterHunt/internal/repository"

	"github.com/sirupsen/logrus"
)

// DefaultLetter seeds the game when no rotation has ever happened.
const DefaultLetter = "A"

var letterPattern = regexp.MustCompile(`^[A-Za-z]$`)

// GameStateService owns the single active letter. Rotation is durable:
// the letter lives in the database, not in process memory, so a restart
// never loses it.
type GameStateService struct {
	states repository.GameStateRepository
	logger *logrus.Logger
}

// NewGameStateService creates a GameStateService.
func NewGameStateService(states repository.GameStateRepository, logger *logrus.Logger) *GameStateService {
	return &GameStateService{states: states, logger: logger}
}

// Current returns the active game state, or nil when the game has
// never been seeded.
func (s *GameStateService) Current(ctx context.Context) (*model.GameState, error) {
	state, err := s.states.GetActive(ctx)
	if err != nil {
		return nil, dependencyErr("load game state", err)
	}
	return state, nil
}

// Rotate switches the game to a new letter. The previous active row is
// deactivated and a new one inserted in one transaction, so intake
// reads never see a half-rotated state.
func (s *GameStateService) Rotate(ctx context.Context, letter string) (*model.GameState, error) {
	if !letterPattern.MatchString(letter) {
		return nil, validationErr(CodeInvalidLetter, "Invalid letter. Must be A-Z")
	}
	upper := strings.ToUpper(letter)
	state, err := s.states.Rotate(ctx, upper)
	if err != nil {
		return nil, dependencyErr("rotate game letter", err)
	}
	s.logger.WithField("letter", upper).Info("game letter rotated")
	return state, nil
}

// EnsureSeeded creates the initial active row with DefaultLetter when
// no rotation has happened yet. Called once at startup.
func (s *GameStateService) EnsureSeeded(ctx context.Context) error {
	state, err := s.states.GetActive(ctx)
	if err != nil {
		return dependencyErr("load game state", err)
	}
	if state != nil {
		return nil
	}
	seed := &model.GameState{CurrentLetter: DefaultLetter, IsActive: true}
	if err := s.states.Create(ctx, seed); err != nil {
		return dependencyErr("seed game state", err)
	}
	s.logger.WithField("letter", DefaultLetter).Info("seeded initial game letter")
	return nil
}
