package app

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typist/internal/repository"
)

func TestScoreService_Record_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.excerpt(t, "the quick brown fox")
	pub := &recordingPublisher{}
	rec := &countingRecorder{}
	svc := NewScoreService(f.scores, pub, f.leaderboard, rec, f.logger)

	score, err := svc.Record(ctx, ScoreInput{WPM: 80, Time: 60, ExcerptID: int(e.ID), ErrorCount: 2})
	require.NoError(t, err)
	assert.Equal(t, uint(1), score.ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, score.ID, pub.events[0].ScoreID)
	assert.Equal(t, e.ID, pub.events[0].ExcerptID)
	assert.Equal(t, 80, pub.events[0].WPM)
	assert.Equal(t, 1, rec.n)

	top, err := f.leaderboard.Top(ctx, e.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, top, "with a publisher the worker owns the leaderboard")
}

func TestScoreService_Record_UpdatesLeaderboardWithoutPublisher(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.excerpt(t, "body")
	svc := NewScoreService(f.scores, nil, f.leaderboard, nil, f.logger)

	s, err := svc.Record(ctx, ScoreInput{WPM: 91, Time: 30, ExcerptID: int(e.ID)})
	require.NoError(t, err)

	top, err := f.leaderboard.Top(ctx, e.ID, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, s.ID, top[0].ScoreID)
	assert.Equal(t, 91, top[0].WPM)
}

func TestScoreService_Record_PublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.excerpt(t, "body")
	svc := NewScoreService(f.scores, &recordingPublisher{err: errBroker}, f.leaderboard, nil, f.logger)

	_, err := svc.Record(ctx, ScoreInput{WPM: 40, Time: 20, ExcerptID: int(e.ID)})
	require.NoError(t, err)

	stored, err := f.scores.List(ctx, repository.Page{})
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	require.NotNil(t, f.log.LastEntry())
	assert.Equal(t, logrus.WarnLevel, f.log.LastEntry().Level)
}

func TestScoreService_Record_UnknownExcerpt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	pub := &recordingPublisher{}
	svc := NewScoreService(f.scores, pub, f.leaderboard, nil, f.logger)

	for _, id := range []int{0, -3, 99} {
		_, err := svc.Record(ctx, ScoreInput{WPM: 1, Time: 1, ExcerptID: id})
		require.ErrorIs(t, err, ErrIntegrity, "excerpt id %d", id)
	}

	stored, err := f.scores.List(ctx, repository.Page{})
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, pub.events)
}

func TestScoreService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.excerpt(t, "first")
	b := f.excerpt(t, "second")
	svc := NewScoreService(f.scores, nil, f.leaderboard, nil, f.logger)

	s, err := svc.Record(ctx, ScoreInput{WPM: 50, Time: 10, ExcerptID: int(a.ID)})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, s.ID, ScoreInput{WPM: 70, Time: 12, ExcerptID: int(b.ID), ErrorCount: 1})
	require.NoError(t, err)
	assert.Equal(t, 70, updated.WPM)

	topA, err := f.leaderboard.Top(ctx, a.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, topA)
	topB, err := f.leaderboard.Top(ctx, b.ID, 10)
	require.NoError(t, err)
	require.Len(t, topB, 1)
	assert.Equal(t, 70, topB[0].WPM)

	_, err = svc.Update(ctx, s.ID, ScoreInput{WPM: 1, ExcerptID: 0})
	require.ErrorIs(t, err, ErrIntegrity)
	_, err = svc.Update(ctx, 404, ScoreInput{WPM: 1, ExcerptID: int(a.ID)})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, s.ID))
	require.ErrorIs(t, svc.Delete(ctx, s.ID), ErrNotFound)
	topB, err = f.leaderboard.Top(ctx, b.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, topB)
}
