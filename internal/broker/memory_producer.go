package broker

import (
	"log"
	"strings"
	"sync"
)

// InMemoryBroker is a process-local Producer. Subscribers receive every
// message whose topic starts with their prefix.
type InMemoryBroker struct {
	consumers map[string][]chan Message
	mu        sync.RWMutex
}

func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{consumers: make(map[string][]chan Message)}
}

// Produce implements Producer. A full consumer drops the message.
func (b *InMemoryBroker) Produce(msg Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for prefix, chans := range b.consumers {
		if !strings.HasPrefix(msg.Topic, prefix) {
			continue
		}
		for _, ch := range chans {
			select {
			case ch <- msg:
			default:
				log.Printf("[InMemoryBroker] consumer of %s is full, message dropped", prefix)
			}
		}
	}
	return nil
}

// Consume subscribes to every topic starting with prefix.
func (b *InMemoryBroker) Consume(prefix string) <-chan Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Message, 100)
	b.consumers[prefix] = append(b.consumers[prefix], ch)
	return ch
}

func (b *InMemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, chans := range b.consumers {
		for _, ch := range chans {
			close(ch)
		}
	}
	b.consumers = make(map[string][]chan Message)
	return nil
}
