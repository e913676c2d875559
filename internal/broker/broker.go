// Package broker publishes committed match events to a message broker.
package broker

import (
	"fmt"
)

// Message is one event on its way to the broker.
type Message struct {
	Topic string
	Key   string
	Value []byte
}

// Producer is the sending side of a message broker.
type Producer interface {
	Produce(msg Message) error
	Close() error
}

// TopicName returns the routing key for an event of kind on a match.
func TopicName(matchID uint, kind string) string {
	return fmt.Sprintf("match.%d.%s", matchID, kind)
}
