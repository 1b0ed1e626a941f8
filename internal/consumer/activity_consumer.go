package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/OmarEmad62/ATC-01111780082/internal/dto"
	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/OmarEmad62/ATC-01111780082/internal/repository"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const storeTimeout = 5 * time.Second

var errUnknownRoutingKey = errors.New("unknown routing key")

// ActivityConsumer turns domain messages into activity log rows. Deleting
// an event removes its bookings, so this log is where their history survives.
type ActivityConsumer struct {
	repo repository.ActivityRepository
}

func NewActivityConsumer(repo repository.ActivityRepository) *ActivityConsumer {
	return &ActivityConsumer{repo: repo}
}

// Start processes deliveries in the background until msgs is closed.
func (ac *ActivityConsumer) Start(msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			ac.handleMessage(msg)
		}
		log.Println("[ActivityConsumer] channel closed, stopping consumer")
	}()
	return done
}

func (ac *ActivityConsumer) handleMessage(msg amqp.Delivery) {
	logs, err := toActivity(msg.RoutingKey, msg.Body)
	if err != nil {
		log.Printf("[ActivityConsumer] dropping %s message: %v", msg.RoutingKey, err)
		_ = msg.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := ac.repo.CreateBatch(ctx, logs); err != nil {
		log.Printf("[ActivityConsumer] failed to store %s: %v", msg.RoutingKey, err)
		_ = msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[ActivityConsumer] recorded %s (%d rows)", msg.RoutingKey, len(logs))
	_ = msg.Ack(false)
}

func toActivity(routingKey string, body []byte) ([]models.ActivityLog, error) {
	switch {
	case strings.HasPrefix(routingKey, "booking."):
		var m dto.BookingMessage
		if err := json.Unmarshal(body, &m); err != nil {
			return nil, fmt.Errorf("unmarshal booking message: %w", err)
		}
		return []models.ActivityLog{{
			Kind:      routingKey,
			EventID:   ref(m.EventID),
			BookingID: ref(m.BookingID),
			UserID:    ref(m.UserID),
			Payload:   string(body),
		}}, nil

	case strings.HasPrefix(routingKey, "event."):
		var m dto.EventMessage
		if err := json.Unmarshal(body, &m); err != nil {
			return nil, fmt.Errorf("unmarshal event message: %w", err)
		}
		logs := []models.ActivityLog{{
			Kind:    routingKey,
			EventID: ref(m.EventID),
			Payload: string(body),
		}}
		// One row per removed booking so each user's history shows the loss.
		for _, b := range m.RemovedBookings {
			logs = append(logs, models.ActivityLog{
				Kind:      "booking.removed",
				EventID:   ref(m.EventID),
				BookingID: ref(b.BookingID),
				UserID:    ref(b.UserID),
				Payload:   fmt.Sprintf(`{"status":%q,"eventName":%q}`, b.Status, m.Name),
			})
		}
		return logs, nil
	}
	return nil, fmt.Errorf("%w: %s", errUnknownRoutingKey, routingKey)
}

func ref(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
