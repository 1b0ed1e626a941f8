package service

import "log"

// Publisher emits domain messages after a write has committed.
// rabbitmq.Publisher satisfies it.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// publish is best effort: a broker outage never fails a committed write.
func publish(p Publisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(routingKey, payload); err != nil {
		log.Printf("[Publisher] failed to publish %s: %v", routingKey, err)
	}
}
