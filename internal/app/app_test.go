package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"typist/internal/cache"
	"typist/internal/model"
	"typist/internal/repository"
	"typist/internal/testutil"
)

const testSecret = "test-secret"

type fixture struct {
	db          *gorm.DB
	log         *logtest.Hook
	logger      *logrus.Logger
	sessions    *cache.SessionStore
	leaderboard *cache.Leaderboard
	users       *repository.UserRepository
	excerpts    *repository.ExcerptRepository
	scores      *repository.ScoreRepository
	auth        *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	rdb, _ := testutil.NewRedis(t)
	logger, hook := logtest.NewNullLogger()

	f := &fixture{
		db:          db,
		log:         hook,
		logger:      logger,
		sessions:    cache.NewSessionStore(rdb, time.Hour),
		leaderboard: cache.NewLeaderboard(rdb),
		users:       repository.NewUserRepository(db),
		excerpts:    repository.NewExcerptRepository(db),
		scores:      repository.NewScoreRepository(db),
	}
	f.auth = NewAuthService(f.users, f.sessions, testSecret, logger)
	return f
}

func (f *fixture) excerpt(t *testing.T, body string) *model.Excerpt {
	t.Helper()
	e := &model.Excerpt{Body: body}
	require.NoError(t, f.excerpts.Create(context.Background(), e))
	return e
}

type recordingPublisher struct {
	events []model.ScoreRecordedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.ScoreRecordedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type countingRecorder struct{ n int }

func (r *countingRecorder) ObserveScore(*model.Score) { r.n++ }

var errBroker = errors.New("broker unavailable")
