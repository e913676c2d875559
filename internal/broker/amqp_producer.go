package broker

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// AMQPProducer publishes to a durable topic exchange.
type AMQPProducer struct {
	exchange string
	conn     *amqp.Connection
	channel  *amqp.Channel
	mu       sync.Mutex
}

// NewAMQPProducer connects to url and declares exchange.
func NewAMQPProducer(url, exchange string) (*AMQPProducer, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 30 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	log.Printf("Connected to AMQP, publishing to exchange %s", exchange)
	return &AMQPProducer{exchange: exchange, conn: conn, channel: channel}, nil
}

// Produce implements Producer. amqp channels are not safe for concurrent
// publishing, so sends are serialized.
func (p *AMQPProducer) Produce(msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.channel.Publish(
		p.exchange,
		msg.Topic,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.Key,
			Timestamp:    time.Now(),
			Body:         msg.Value,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", msg.Topic, err)
	}
	return nil
}

func (p *AMQPProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
