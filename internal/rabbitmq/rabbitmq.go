package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	POST_SUBMITTED_QUEUE = "post.submitted"
	POST_REVIEWED_QUEUE  = "post.reviewed"
)

var queues = []string{POST_SUBMITTED_QUEUE, POST_REVIEWED_QUEUE}

// Publisher sends JSON events to a named queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, body interface{}) error
}

// MQConn publishes over one channel and redials the broker when the
// connection or channel has been closed.
type MQConn struct {
	url  string
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex
}

func New(url string) (*MQConn, error) {
	mq := &MQConn{url: url}
	if err := mq.connect(); err != nil {
		return nil, err
	}
	return mq, nil
}

// connect opens whatever is missing or closed. Callers hold mu, except New.
func (mq *MQConn) connect() error {
	if mq.ch != nil && !mq.ch.IsClosed() {
		return nil
	}

	if mq.conn == nil || mq.conn.IsClosed() {
		conn, err := amqp.Dial(mq.url)
		if err != nil {
			return err
		}
		mq.conn = conn
	}

	ch, err := mq.conn.Channel()
	if err != nil {
		return err
	}

	for _, queue := range queues {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			ch.Close()
			return err
		}
	}

	mq.ch = ch
	return nil
}

func (mq *MQConn) Publish(ctx context.Context, queue string, body interface{}) error {
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         bodyJSON,
	}

	mq.mu.Lock()
	defer mq.mu.Unlock()

	if err := mq.connect(); err != nil {
		return err
	}

	err = mq.ch.PublishWithContext(ctx, "", queue, false, false, msg)
	if !errors.Is(err, amqp.ErrClosed) {
		return err
	}

	// The broker went away after the last check; retry once on a fresh channel.
	mq.ch = nil
	if err := mq.connect(); err != nil {
		return err
	}
	return mq.ch.PublishWithContext(ctx, "", queue, false, false, msg)
}

func (mq *MQConn) Close() error {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.ch != nil && !mq.ch.IsClosed() {
		if err := mq.ch.Close(); err != nil {
			return err
		}
	}
	if mq.conn != nil && !mq.conn.IsClosed() {
		return mq.conn.Close()
	}
	return nil
}

// Discard drops every event. It stands in for the broker in memory mode.
type Discard struct{}

func (Discard) Publish(ctx context.Context, queue string, body interface{}) error {
	return nil
}
