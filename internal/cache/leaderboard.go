package cache

import (
	"context"
	"fmt"
	"strconv"

	redisv9 "github.com/redis/go-redis/v9"
)

const MaxLeaderboardLimit = 100

type LeaderboardEntry struct {
	ScoreID uint `json:"score_id"`
	WPM     int  `json:"wpm"`
}

// Leaderboard ranks scores per excerpt by words per minute in a sorted set.
type Leaderboard struct {
	client *redisv9.Client
}

func NewLeaderboard(client *redisv9.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

func (l *Leaderboard) Record(ctx context.Context, excerptID, scoreID uint, wpm int) error {
	err := l.client.ZAdd(ctx, l.key(excerptID), redisv9.Z{
		Score:  float64(wpm),
		Member: strconv.FormatUint(uint64(scoreID), 10),
	}).Err()
	if err != nil {
		return fmt.Errorf("redis record leaderboard failed: %w", err)
	}
	return nil
}

// Top returns up to limit entries, fastest first.
func (l *Leaderboard) Top(ctx context.Context, excerptID uint, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	zs, err := l.client.ZRevRangeWithScores(ctx, l.key(excerptID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read leaderboard failed: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		scoreID, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{ScoreID: uint(scoreID), WPM: int(z.Score)})
	}
	return entries, nil
}

func (l *Leaderboard) Remove(ctx context.Context, excerptID, scoreID uint) error {
	if err := l.client.ZRem(ctx, l.key(excerptID), strconv.FormatUint(uint64(scoreID), 10)).Err(); err != nil {
		return fmt.Errorf("redis remove leaderboard entry failed: %w", err)
	}
	return nil
}

func (l *Leaderboard) key(excerptID uint) string {
	return fmt.Sprintf("leaderboard:excerpt:%d", excerptID)
}
