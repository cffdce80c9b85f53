package service

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"time"

	"LetterHunt/internal/model"
	"LetterHunt/internal/repository"
	"LetterHunt/internal/reward"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeGameStateRepo struct {
	active    *model.GameState
	history   []*model.GameState
	getErr    error
	rotateErr error
	createErr error
}

func (f *fakeGameStateRepo) GetActive(ctx context.Context) (*model.GameState, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.active, nil
}

func (f *fakeGameStateRepo) Rotate(ctx context.Context, letter string) (*model.GameState, error) {
	if f.rotateErr != nil {
		return nil, f.rotateErr
	}
	if f.active != nil {
		f.active.IsActive = false
		f.history = append(f.history, f.active)
	}
	f.active = &model.GameState{
		ID:            uint64(len(f.history) + 1),
		CurrentLetter: letter,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
	}
	return f.active, nil
}

func (f *fakeGameStateRepo) Create(ctx context.Context, state *model.GameState) error {
	if f.createErr != nil {
		return f.createErr
	}
	if state.IsActive {
		f.active = state
	}
	return nil
}

type fakeSubmissionRepo struct {
	nextID    uint64
	subs      map[uint64]*model.Submission
	createErr error
	updateErr error
	updates   int
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{subs: make(map[uint64]*model.Submission)}
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	sub.ID = f.nextID
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	f.subs[sub.ID] = sub
	return nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id uint64) (*model.Submission, error) {
	sub, ok := f.subs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *sub
	return &copied, nil
}

func (f *fakeSubmissionRepo) ListByStatus(ctx context.Context, status string) ([]*model.Submission, error) {
	var list []*model.Submission
	for _, sub := range f.subs {
		if status == "" || sub.Status == status {
			list = append(list, sub)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SubmittedAt.After(list[j].SubmittedAt) })
	return list, nil
}

func (f *fakeSubmissionRepo) ListByPlayer(ctx context.Context, playerName string) ([]*model.Submission, error) {
	var list []*model.Submission
	for _, sub := range f.subs {
		if sub.PlayerName == playerName {
			list = append(list, sub)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SubmittedAt.After(list[j].SubmittedAt) })
	return list, nil
}

func (f *fakeSubmissionRepo) UpdateDecision(ctx context.Context, id uint64, status string, approvedAt *time.Time, notes *string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	sub, ok := f.subs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.updates++
	sub.Status = status
	sub.ApprovedAt = approvedAt
	sub.AdminNotes = notes
	return nil
}

type fakeWinnerRepo struct {
	nextID    uint64
	byLetter  map[string]*model.Winner
	createErr error
	markErr   error
	marked    []uint64
}

func newFakeWinnerRepo() *fakeWinnerRepo {
	return &fakeWinnerRepo{byLetter: make(map[string]*model.Winner)}
}

func (f *fakeWinnerRepo) GetByLetter(ctx context.Context, letter string) (*model.Winner, error) {
	winner, ok := f.byLetter[letter]
	if !ok {
		return nil, nil
	}
	return winner, nil
}

func (f *fakeWinnerRepo) List(ctx context.Context) ([]*model.Winner, error) {
	var list []*model.Winner
	for _, winner := range f.byLetter {
		list = append(list, winner)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].WonAt.After(list[j].WonAt) })
	return list, nil
}

func (f *fakeWinnerRepo) Create(ctx context.Context, winner *model.Winner) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byLetter[winner.Letter]; exists {
		// mirrors the unique index on winners.letter
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	winner.ID = f.nextID
	if winner.WonAt.IsZero() {
		winner.WonAt = time.Now().UTC()
	}
	f.byLetter[winner.Letter] = winner
	return nil
}

func (f *fakeWinnerRepo) MarkRewardDistributed(ctx context.Context, submissionID uint64, receipt datatypes.JSON) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, submissionID)
	for _, winner := range f.byLetter {
		if winner.SubmissionID != nil && *winner.SubmissionID == submissionID {
			winner.NFTToken = receipt
			winner.RewardDistributed = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// fakeTxManager runs fn over the shared fakes without real
// transactional rollback; conflict-path tests assert that no mutation
// happened before the failing step instead.
type fakeTxManager struct {
	subs    repository.SubmissionRepository
	winners repository.WinnerRepository
}

func (f *fakeTxManager) InTx(ctx context.Context, fn func(subs repository.SubmissionRepository, winners repository.WinnerRepository) error) error {
	return fn(f.subs, f.winners)
}

type spyBlobStore struct {
	puts    []string
	deletes []string
	putErr  error
	delErr  error
}

func (s *spyBlobStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	s.puts = append(s.puts, key)
	return "https://blobs.test/" + key, nil
}

func (s *spyBlobStore) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return s.delErr
}

type fakeDispatcher struct {
	receipt datatypes.JSON
	err     error
	calls   []*model.Winner
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, winner *model.Winner) (datatypes.JSON, error) {
	f.calls = append(f.calls, winner)
	if f.err != nil {
		return nil, f.err
	}
	return f.receipt, nil
}

type fakeRewardClient struct {
	resp json.RawMessage
	err  error
	got  [][]reward.Distribution
}

func (f *fakeRewardClient) Distribute(ctx context.Context, distributions []reward.Distribution) (json.RawMessage, error) {
	f.got = append(f.got, distributions)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func strPtr(s string) *string { return &s }
