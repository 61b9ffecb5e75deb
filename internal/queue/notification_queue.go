package queue

import (
	"context"

	"go-cinema-ticketing/internal/model"
)

// Notification carries a settlement outcome to the mail worker.
type Notification struct {
	OrderID int64             `json:"order_id"`
	Email   string            `json:"email"`
	Status  model.OrderStatus `json:"status"`
}

type Delivery struct {
	Data *Notification
	Ack  func()
	Nack func(requeue bool)
}

type NotificationQueue interface {
	Publish(ctx context.Context, notification *Notification) error
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

// MemoryNotificationQueue is a channel-backed queue used in tests and
// single-process setups.
type MemoryNotificationQueue struct {
	ch chan *Notification
}

func NewMemoryNotificationQueue(bufferSize int) NotificationQueue {
	return &MemoryNotificationQueue{
		ch: make(chan *Notification, bufferSize),
	}
}

func (q *MemoryNotificationQueue) Publish(ctx context.Context, notification *Notification) error {
	select {
	case q.ch <- notification:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryNotificationQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case notification, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: notification,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- notification
						}
					},
				}
			}
		}
	}()

	return out, nil
}
