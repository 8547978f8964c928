package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"typist/internal/cache"
	"typist/internal/model"
	"typist/internal/repository"
)

type Leaderboard interface {
	Record(ctx context.Context, excerptID, scoreID uint, wpm int) error
	Top(ctx context.Context, excerptID uint, limit int) ([]cache.LeaderboardEntry, error)
	Remove(ctx context.Context, excerptID, scoreID uint) error
}

type ExcerptService struct {
	excerptRepo *repository.ExcerptRepository
	leaderboard Leaderboard
	log         logrus.FieldLogger
}

func NewExcerptService(excerptRepo *repository.ExcerptRepository, leaderboard Leaderboard, log logrus.FieldLogger) *ExcerptService {
	return &ExcerptService{
		excerptRepo: excerptRepo,
		leaderboard: leaderboard,
		log:         log,
	}
}

func (s *ExcerptService) List(ctx context.Context) ([]model.Excerpt, error) {
	return s.excerptRepo.List(ctx)
}

func (s *ExcerptService) ListPage(ctx context.Context, page repository.Page) ([]model.Excerpt, error) {
	return s.excerptRepo.ListPage(ctx, page)
}

func (s *ExcerptService) Get(ctx context.Context, id uint) (*model.Excerpt, error) {
	return s.excerptRepo.GetByID(ctx, id)
}

func (s *ExcerptService) Create(ctx context.Context, body string) (*model.Excerpt, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: body must not be empty", ErrValidation)
	}
	excerpt := &model.Excerpt{Body: body}
	if err := s.excerptRepo.Create(ctx, excerpt); err != nil {
		return nil, err
	}
	s.log.WithField("excerpt_id", excerpt.ID).Info("excerpt created")
	return excerpt, nil
}

func (s *ExcerptService) Update(ctx context.Context, id uint, body string) (*model.Excerpt, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: body must not be empty", ErrValidation)
	}
	excerpt := &model.Excerpt{ID: id, Body: body}
	if err := s.excerptRepo.Update(ctx, excerpt); err != nil {
		return nil, err
	}
	return excerpt, nil
}

// Delete is refused with ErrIntegrity while scores reference the excerpt.
func (s *ExcerptService) Delete(ctx context.Context, id uint) error {
	if err := s.excerptRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("excerpt_id", id).Info("excerpt deleted")
	return nil
}

// Import stores every non-blank passage as an excerpt in one batch.
func (s *ExcerptService) Import(ctx context.Context, passages []string) ([]model.Excerpt, error) {
	excerpts := make([]model.Excerpt, 0, len(passages))
	for _, p := range passages {
		if strings.TrimSpace(p) == "" {
			continue
		}
		excerpts = append(excerpts, model.Excerpt{Body: p})
	}
	if len(excerpts) == 0 {
		return nil, fmt.Errorf("%w: no passages to import", ErrValidation)
	}
	if err := s.excerptRepo.CreateBatch(ctx, excerpts); err != nil {
		return nil, err
	}
	s.log.WithField("count", len(excerpts)).Info("excerpts imported")
	return excerpts, nil
}

// Leaderboard returns the fastest recorded scores for an existing excerpt.
func (s *ExcerptService) Leaderboard(ctx context.Context, id uint, limit int) ([]cache.LeaderboardEntry, error) {
	if _, err := s.excerptRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.leaderboard.Top(ctx, id, limit)
}
