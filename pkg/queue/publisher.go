package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Payphone-Digital/addressbook/pkg/circuit"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Publisher pushes a JSON event onto a named queue
type Publisher interface {
	Publish(ctx context.Context, queue string, event interface{}) error
	Close() error
}

// enqueuer is the subset of *asynq.Client the publisher needs
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// AsynqPublisher enqueues tasks whose type and queue are both the queue name.
// Tasks are never retried.
type AsynqPublisher struct {
	client  enqueuer
	breaker *circuit.Breaker
}

func NewAsynqPublisher(opt asynq.RedisConnOpt, breaker *circuit.Breaker) *AsynqPublisher {
	return &AsynqPublisher{client: asynq.NewClient(opt), breaker: breaker}
}

func (p *AsynqPublisher) Publish(ctx context.Context, queue string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", queue, err)
	}

	task := asynq.NewTask(queue, payload)
	enqueue := func(ctx context.Context) error {
		_, err := p.client.EnqueueContext(ctx, task, asynq.Queue(queue), asynq.MaxRetry(0))
		return err
	}

	if p.breaker == nil {
		err = enqueue(ctx)
	} else {
		err = p.breaker.Do(ctx, enqueue)
	}
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", queue, err)
	}
	return nil
}

func (p *AsynqPublisher) Close() error {
	return p.client.Close()
}

// NoopPublisher is used when the queue is disabled; it only logs
type NoopPublisher struct {
	logger *zap.Logger
}

func NewNoopPublisher(logger *zap.Logger) *NoopPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(_ context.Context, queue string, event interface{}) error {
	p.logger.Debug("Queue disabled, event dropped",
		zap.String("queue", queue),
		zap.Any("event", event),
	)
	return nil
}

func (p *NoopPublisher) Close() error { return nil }
