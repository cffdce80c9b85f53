package api

import (
	"context"
	"io"
	"sort"
	"time"

	"LetterHunt/internal/model"
	"LetterHunt/internal/repository"
	"LetterHunt/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeStates struct {
	active *model.GameState
}

func (f *fakeStates) GetActive(ctx context.Context) (*model.GameState, error) {
	return f.active, nil
}

func (f *fakeStates) Rotate(ctx context.Context, letter string) (*model.GameState, error) {
	if f.active != nil {
		f.active.IsActive = false
	}
	f.active = &model.GameState{ID: 1, CurrentLetter: letter, IsActive: true, CreatedAt: time.Now().UTC()}
	return f.active, nil
}

func (f *fakeStates) Create(ctx context.Context, state *model.GameState) error {
	f.active = state
	return nil
}

type fakeSubs struct {
	nextID uint64
	subs   map[uint64]*model.Submission
}

func newFakeSubs() *fakeSubs { return &fakeSubs{subs: make(map[uint64]*model.Submission)} }

func (f *fakeSubs) Create(ctx context.Context, sub *model.Submission) error {
	f.nextID++
	sub.ID = f.nextID
	sub.SubmittedAt = time.Now().UTC()
	f.subs[sub.ID] = sub
	return nil
}

func (f *fakeSubs) GetByID(ctx context.Context, id uint64) (*model.Submission, error) {
	sub, ok := f.subs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *sub
	return &copied, nil
}

func (f *fakeSubs) ListByStatus(ctx context.Context, status string) ([]*model.Submission, error) {
	list := []*model.Submission{}
	for _, sub := range f.subs {
		if status == "" || sub.Status == status {
			list = append(list, sub)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SubmittedAt.After(list[j].SubmittedAt) })
	return list, nil
}

func (f *fakeSubs) ListByPlayer(ctx context.Context, playerName string) ([]*model.Submission, error) {
	list := []*model.Submission{}
	for _, sub := range f.subs {
		if sub.PlayerName == playerName {
			list = append(list, sub)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SubmittedAt.After(list[j].SubmittedAt) })
	return list, nil
}

func (f *fakeSubs) UpdateDecision(ctx context.Context, id uint64, status string, approvedAt *time.Time, notes *string) error {
	sub, ok := f.subs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sub.Status = status
	sub.ApprovedAt = approvedAt
	sub.AdminNotes = notes
	return nil
}

type fakeWinners struct {
	nextID   uint64
	byLetter map[string]*model.Winner
}

func newFakeWinners() *fakeWinners { return &fakeWinners{byLetter: make(map[string]*model.Winner)} }

func (f *fakeWinners) GetByLetter(ctx context.Context, letter string) (*model.Winner, error) {
	return f.byLetter[letter], nil
}

func (f *fakeWinners) List(ctx context.Context) ([]*model.Winner, error) {
	list := []*model.Winner{}
	for _, winner := range f.byLetter {
		list = append(list, winner)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].WonAt.After(list[j].WonAt) })
	return list, nil
}

func (f *fakeWinners) Create(ctx context.Context, winner *model.Winner) error {
	if _, exists := f.byLetter[winner.Letter]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	winner.ID = f.nextID
	winner.WonAt = time.Now().UTC()
	f.byLetter[winner.Letter] = winner
	return nil
}

func (f *fakeWinners) MarkRewardDistributed(ctx context.Context, submissionID uint64, receipt datatypes.JSON) error {
	for _, winner := range f.byLetter {
		if winner.SubmissionID != nil && *winner.SubmissionID == submissionID {
			winner.NFTToken = receipt
			winner.RewardDistributed = true
		}
	}
	return nil
}

type fakeTx struct {
	subs    repository.SubmissionRepository
	winners repository.WinnerRepository
}

func (f *fakeTx) InTx(ctx context.Context, fn func(subs repository.SubmissionRepository, winners repository.WinnerRepository) error) error {
	return fn(f.subs, f.winners)
}

type fakeDispatcher struct {
	receipt datatypes.JSON
	err     error
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, winner *model.Winner) (datatypes.JSON, error) {
	if f.err != nil {
		return nil, f.err
	}
	winner.NFTToken = f.receipt
	winner.RewardDistributed = true
	return f.receipt, nil
}

type fakeBlobs struct{}

func (fakeBlobs) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	return "https://blobs.test/" + key, nil
}

func (fakeBlobs) Delete(ctx context.Context, key string) error { return nil }

// testRouter wires the full route table over fakes, mirroring main.
func testRouter(states *fakeStates, subs *fakeSubs, winners *fakeWinners, dispatcher *fakeDispatcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := testLogger()

	stateService := service.NewGameStateService(states, logger)
	intakeService := service.NewIntakeService(states, subs, winners, fakeBlobs{}, 10<<20, logger)
	arbitrationService := service.NewArbitrationService(subs, winners, &fakeTx{subs: subs, winners: winners}, dispatcher, logger)

	r := gin.New()
	adminHandler := NewAdminHandler(stateService, arbitrationService, subs, logger)
	r.GET("/api/admin/state", adminHandler.GetState)
	r.POST("/api/admin/set-letter", adminHandler.SetLetter)
	r.GET("/api/admin/submissions", adminHandler.ListSubmissions)
	r.GET("/api/admin/submission/:id", adminHandler.GetSubmission)
	r.POST("/api/admin/submission/:id/approve", adminHandler.Decide)

	playerHandler := NewPlayerHandler(stateService, intakeService, subs, logger)
	r.GET("/api/player/current-letter", playerHandler.CurrentLetter)
	r.POST("/api/player/submit", playerHandler.Submit)
	r.GET("/api/player/submissions", playerHandler.ListSubmissions)

	publicHandler := NewPublicHandler(winners, nil, logger)
	r.GET("/api/winners", publicHandler.ListWinners)
	r.GET("/api/health", publicHandler.Health)
	r.GET("/api/storage/health", publicHandler.StorageHealth)
	return r
}
