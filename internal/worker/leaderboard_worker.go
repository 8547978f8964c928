package worker

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"typist/internal/platform/rabbitmq"
)

// LeaderboardRecorder is the slice of cache.Leaderboard the worker writes to.
type LeaderboardRecorder interface {
	Record(ctx context.Context, excerptID, scoreID uint, wpm int) error
}

// LeaderboardWorker consumes score events and ranks them per excerpt.
type LeaderboardWorker struct {
	conn        *amqp.Connection
	leaderboard LeaderboardRecorder
	queueName   string
	log         logrus.FieldLogger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLeaderboardWorker(conn *amqp.Connection, leaderboard LeaderboardRecorder, queueName string, log logrus.FieldLogger) *LeaderboardWorker {
	return &LeaderboardWorker{
		conn:        conn,
		leaderboard: leaderboard,
		queueName:   queueName,
		log:         log.WithField("worker", "leaderboard"),
	}
}

func (w *LeaderboardWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	ch, err := w.conn.Channel()
	if err != nil {
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := rabbitmq.DeclareScoreQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					w.log.Warn("delivery channel closed")
					return
				}

				if err := w.Handle(workerCtx, d.Body); err != nil {
					w.log.WithError(err).Warn("drop score event")
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	w.log.WithField("queue", w.queueName).Info("worker started")
	return nil
}

// Handle applies one encoded score event to the leaderboard.
func (w *LeaderboardWorker) Handle(ctx context.Context, body []byte) error {
	event, err := rabbitmq.Decode(body)
	if err != nil {
		return err
	}
	return w.leaderboard.Record(ctx, event.ExcerptID, event.ScoreID, event.WPM)
}

func (w *LeaderboardWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
