package rabbitmq

import (
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// BindingKeys are the routing patterns the activity queue listens to.
var BindingKeys = []string{"event.*", "booking.*"}

type Consumer struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	closeOnce sync.Once
}

func NewConsumer(url string) (*Consumer, error) {
	conn, ch, err := dial(url)
	if err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(QueueName, true, false, false, false, nil)
	if err != nil {
		closeAll(ch, conn)
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	for _, key := range BindingKeys {
		if err := ch.QueueBind(q.Name, key, ExchangeName, false, nil); err != nil {
			closeAll(ch, conn)
			return nil, fmt.Errorf("rabbitmq queue bind %s: %w", key, err)
		}
	}

	if err := ch.Qos(10, 0, false); err != nil {
		closeAll(ch, conn)
		return nil, fmt.Errorf("rabbitmq qos: %w", err)
	}

	return &Consumer{conn: conn, channel: ch}, nil
}

func (c *Consumer) Consume() (<-chan amqp.Delivery, error) {
	msgs, err := c.channel.Consume(
		QueueName,
		"",    // consumer tag
		false, // manual ack after the activity row is stored
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq consume: %w", err)
	}

	log.Printf("[RabbitMQ] consuming from queue: %s", QueueName)
	return msgs, nil
}

// Close stops delivery; the channel returned by Consume is closed once the
// broker acknowledges. Safe to call more than once.
func (c *Consumer) Close() {
	c.closeOnce.Do(func() { closeAll(c.channel, c.conn) })
}
