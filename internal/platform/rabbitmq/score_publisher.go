package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"typist/internal/model"
)

// ScorePublisher sends ScoreRecordedEvents to the score queue. It keeps one
// channel open and reopens it after the broker closes it.
type ScorePublisher struct {
	conn      *amqp.Connection
	queueName string

	mu sync.Mutex
	ch *amqp.Channel
}

func NewScorePublisher(conn *amqp.Connection, queueName string) *ScorePublisher {
	return &ScorePublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ScorePublisher) Publish(ctx context.Context, event model.ScoreRecordedEvent) error {
	payload, err := Encode(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         "score.recorded",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		_ = ch.Close()
		p.ch = nil
		return fmt.Errorf("publish score event failed: %w", err)
	}
	return nil
}

func (p *ScorePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}

func (p *ScorePublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	if err := DeclareScoreQueue(ch, p.queueName); err != nil {
		_ = ch.Close()
		return nil, err
	}
	p.ch = ch
	return ch, nil
}

func Encode(event model.ScoreRecordedEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal score event failed: %w", err)
	}
	return payload, nil
}

func Decode(body []byte) (model.ScoreRecordedEvent, error) {
	var event model.ScoreRecordedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return event, fmt.Errorf("unmarshal score event failed: %w", err)
	}
	if event.ScoreID == 0 || event.ExcerptID == 0 {
		return event, fmt.Errorf("score event missing ids")
	}
	return event, nil
}
