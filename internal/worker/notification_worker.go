package worker

import (
	"context"

	"go-cinema-ticketing/internal/mailer"
	"go-cinema-ticketing/internal/queue"
	"go-cinema-ticketing/pkg/logger"

	"go.uber.org/zap"
)

type NotificationWorker interface {
	Start(ctx context.Context) error
}

// NotificationWorkerImpl drains the notification queue and sends the
// settlement mail. Sending is best effort: a failed delivery is nacked for
// the queue's retry policy and never surfaces to the order pipeline.
type NotificationWorkerImpl struct {
	mailer mailer.Mailer
	queue  queue.NotificationQueue
}

func NewNotificationWorker(m mailer.Mailer, q queue.NotificationQueue) NotificationWorker {
	return &NotificationWorkerImpl{
		mailer: m,
		queue:  q,
	}
}

func (w *NotificationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		log := logger.WithComponent("notification-worker")
		for msg := range msgs {
			notification := msg.Data
			subject, html := mailer.OrderSettledMail(notification.OrderID, notification.Status)

			if err := w.mailer.Send(ctx, notification.Email, subject, html); err != nil {
				log.Warn("failed to send settlement mail",
					zap.Int64("order_id", notification.OrderID),
					zap.Error(err))
				msg.Nack(true)
				continue
			}

			msg.Ack()
		}
	}()

	return nil
}
