package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Payphone-Digital/addressbook/internal/constants"
	"github.com/Payphone-Digital/addressbook/internal/dto"
	ctxutil "github.com/Payphone-Digital/addressbook/pkg/context"
	"github.com/Payphone-Digital/addressbook/pkg/logger"
	"github.com/Payphone-Digital/addressbook/pkg/queue"
)

// Notifier publishes events in the background. The request that triggered an
// event never waits for the broker and never sees its errors.
type Notifier struct {
	publisher queue.Publisher
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewNotifier(publisher queue.Publisher, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Notifier{publisher: publisher, timeout: timeout}
}

// Notify hands event to the publisher on its own goroutine. The request's
// tracking values are kept but its cancellation is not.
func (n *Notifier) Notify(ctx context.Context, queueName string, event interface{}) {
	if n == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		pubCtx, cancel := context.WithTimeout(ctx, n.timeout)
		defer cancel()

		if err := n.publisher.Publish(pubCtx, queueName, event); err != nil {
			logger.WarnWithContext(ctx, "Event publish failed").
				String("queue", queueName).
				Err(err).
				Log()
			return
		}
		logger.DebugWithContext(ctx, "Event published").String("queue", queueName).Log()
	}()
}

// Wait blocks until every pending publish has finished
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// NotificationService consumes the notification queues. Messages are only
// decoded and logged.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// Register subscribes a handler for every known queue
func (s *NotificationService) Register(consumer *queue.Consumer) {
	consumer.Subscribe(constants.QueueUserRegistered, s.HandleUserRegistered)
	consumer.Subscribe(constants.QueueContactAdded, s.HandleContactAdded)
}

func (s *NotificationService) HandleUserRegistered(ctx context.Context, payload []byte) error {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleWorker, "HandleUserRegistered")

	var event dto.UserRegisteredEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		logger.WarnWithContext(ctx, "Malformed user_registered message").Err(err).Log()
		return err
	}

	logger.InfoWithContext(ctx, "User registered").
		Uint("user_id", event.UserID).
		String("email", event.Email).
		Log()
	return nil
}

func (s *NotificationService) HandleContactAdded(ctx context.Context, payload []byte) error {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleWorker, "HandleContactAdded")

	var event dto.ContactAddedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		logger.WarnWithContext(ctx, "Malformed contact_added message").Err(err).Log()
		return err
	}

	logger.InfoWithContext(ctx, "Contact added").
		Uint("contact_id", event.ContactID).
		String("full_name", event.FullName).
		Log()
	return nil
}
