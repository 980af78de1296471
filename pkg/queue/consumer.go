package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// HandlerFunc processes the raw JSON payload of one message
type HandlerFunc func(ctx context.Context, payload []byte) error

// Consumer runs one asynq server that listens on every subscribed queue
type Consumer struct {
	opt         asynq.RedisConnOpt
	concurrency int
	logger      *zap.Logger
	mux         *asynq.ServeMux
	queues      map[string]int
	server      *asynq.Server
}

func NewConsumer(opt asynq.RedisConnOpt, concurrency int, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Consumer{
		opt:         opt,
		concurrency: concurrency,
		logger:      logger,
		mux:         asynq.NewServeMux(),
		queues:      make(map[string]int),
	}
}

// Subscribe registers handler for queue. Call before Start.
func (c *Consumer) Subscribe(queue string, handler HandlerFunc) {
	c.queues[queue] = 1
	c.mux.HandleFunc(queue, func(ctx context.Context, t *asynq.Task) error {
		if err := handler(ctx, t.Payload()); err != nil {
			// a failed message is dropped, not retried
			return fmt.Errorf("%s: %v: %w", queue, err, asynq.SkipRetry)
		}
		return nil
	})
}

// Dispatch routes a message through the registered handlers without a broker
func (c *Consumer) Dispatch(ctx context.Context, queue string, payload []byte) error {
	return c.mux.ProcessTask(ctx, asynq.NewTask(queue, payload))
}

// Start launches the server in the background
func (c *Consumer) Start() error {
	if len(c.queues) == 0 {
		return fmt.Errorf("consumer has no subscriptions")
	}

	c.server = asynq.NewServer(c.opt, asynq.Config{
		Concurrency: c.concurrency,
		Queues:      c.queues,
		Logger:      c.logger.Sugar(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			c.logger.Warn("Queue message failed",
				zap.String("queue", task.Type()),
				zap.Error(err),
			)
		}),
	})

	if err := c.server.Start(c.mux); err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}

	queues := make([]string, 0, len(c.queues))
	for q := range c.queues {
		queues = append(queues, q)
	}
	c.logger.Info("Queue consumer started", zap.Strings("queues", queues), zap.Int("concurrency", c.concurrency))
	return nil
}

// Shutdown waits for in-flight messages, then stops the server
func (c *Consumer) Shutdown() {
	if c.server == nil {
		return
	}
	c.server.Shutdown()
	c.logger.Info("Queue consumer stopped")
}
