package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"typist/internal/model"
	"typist/internal/repository"
)

// ScorePublisher announces committed scores to downstream consumers.
type ScorePublisher interface {
	Publish(ctx context.Context, event model.ScoreRecordedEvent) error
}

// ScoreRecorder is notified of every committed score; the metrics package
// implements it.
type ScoreRecorder interface {
	ObserveScore(score *model.Score)
}

type ScoreService struct {
	scoreRepo   *repository.ScoreRepository
	publisher   ScorePublisher
	leaderboard Leaderboard
	recorder    ScoreRecorder
	log         logrus.FieldLogger
}

type ScoreInput struct {
	WPM        int
	Time       int
	ExcerptID  int
	ErrorCount int
}

// NewScoreService wires score persistence. With a nil publisher the
// leaderboard is updated in-process instead of through the event queue.
func NewScoreService(
	scoreRepo *repository.ScoreRepository,
	publisher ScorePublisher,
	leaderboard Leaderboard,
	recorder ScoreRecorder,
	log logrus.FieldLogger,
) *ScoreService {
	return &ScoreService{
		scoreRepo:   scoreRepo,
		publisher:   publisher,
		leaderboard: leaderboard,
		recorder:    recorder,
		log:         log,
	}
}

// Record commits the score before returning. Follow-up fan-out is best effort.
func (s *ScoreService) Record(ctx context.Context, input ScoreInput) (*model.Score, error) {
	if input.ExcerptID <= 0 {
		return nil, fmt.Errorf("create score: excerpt %d does not exist: %w", input.ExcerptID, ErrIntegrity)
	}

	score := &model.Score{
		WPM:        input.WPM,
		Time:       input.Time,
		ExcerptID:  uint(input.ExcerptID),
		ErrorCount: input.ErrorCount,
	}
	if err := s.scoreRepo.Create(ctx, score); err != nil {
		return nil, err
	}

	entry := s.log.WithFields(logrus.Fields{"score_id": score.ID, "excerpt_id": score.ExcerptID, "wpm": score.WPM})
	entry.Info("score recorded")
	if s.recorder != nil {
		s.recorder.ObserveScore(score)
	}
	s.fanOut(ctx, score, entry)
	return score, nil
}

func (s *ScoreService) fanOut(ctx context.Context, score *model.Score, entry logrus.FieldLogger) {
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, model.NewScoreRecordedEvent(score)); err != nil {
			entry.WithError(err).Warn("publish score event failed")
		}
		return
	}
	if s.leaderboard != nil {
		if err := s.leaderboard.Record(ctx, score.ExcerptID, score.ID, score.WPM); err != nil {
			entry.WithError(err).Warn("update leaderboard failed")
		}
	}
}

func (s *ScoreService) Get(ctx context.Context, id uint) (*model.Score, error) {
	return s.scoreRepo.GetByID(ctx, id)
}

func (s *ScoreService) List(ctx context.Context, page repository.Page) ([]model.Score, error) {
	return s.scoreRepo.List(ctx, page)
}

func (s *ScoreService) Update(ctx context.Context, id uint, input ScoreInput) (*model.Score, error) {
	if input.ExcerptID <= 0 {
		return nil, fmt.Errorf("update score: excerpt %d does not exist: %w", input.ExcerptID, ErrIntegrity)
	}
	before, err := s.scoreRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	score := &model.Score{
		ID:         id,
		WPM:        input.WPM,
		Time:       input.Time,
		ExcerptID:  uint(input.ExcerptID),
		ErrorCount: input.ErrorCount,
	}
	if err := s.scoreRepo.Update(ctx, score); err != nil {
		return nil, err
	}
	if s.leaderboard != nil {
		if err := s.leaderboard.Remove(ctx, before.ExcerptID, id); err != nil {
			s.log.WithError(err).Warn("update leaderboard failed")
		} else if err := s.leaderboard.Record(ctx, score.ExcerptID, id, score.WPM); err != nil {
			s.log.WithError(err).Warn("update leaderboard failed")
		}
	}
	return score, nil
}

func (s *ScoreService) Delete(ctx context.Context, id uint) error {
	score, err := s.scoreRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.scoreRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.leaderboard != nil {
		if err := s.leaderboard.Remove(ctx, score.ExcerptID, id); err != nil {
			s.log.WithError(err).Warn("update leaderboard failed")
		}
	}
	return nil
}
