package queue

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartEventConsumer connects to RabbitMQ and drains the
// reservation.created and payment.confirmed queues, appending each
// event to logs/events.log in a single-line format.  It runs a
// reconnect loop with exponential backoff and never returns under
// normal operation; malformed messages are rejected without requeue so
// the consumer cannot spin on a poison message.
func StartEventConsumer(url string) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("event-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("event-consumer: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("event-consumer: set QoS failed: %v", err)
	}
	if err := ch.ExchangeDeclare(exchangeName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}

	keys := []string{ReservationCreatedKey, PaymentConfirmedKey}
	deliveries := make(chan amqp.Delivery)
	var forwarders sync.WaitGroup
	for _, key := range keys {
		if _, err := ch.QueueDeclare(queueName(key), true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", key, err)
		}
		if err := ch.QueueBind(queueName(key), key, exchangeName, false, nil); err != nil {
			return fmt.Errorf("queue bind %s: %w", key, err)
		}
		msgs, err := ch.Consume(queueName(key), "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", key, err)
		}
		forwarders.Add(1)
		go func(in <-chan amqp.Delivery) {
			defer forwarders.Done()
			for d := range in {
				deliveries <- d
			}
		}(msgs)
	}
	// Close the merged stream once every per-queue channel has closed,
	// which happens when the connection drops.
	go func() {
		forwarders.Wait()
		close(deliveries)
	}()

	for d := range deliveries {
		if err := appendEventLog(d.RoutingKey, d.Body); err != nil {
			log.Printf("event-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func appendEventLog(routingKey string, body []byte) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "events.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s %s\n", time.Now().UTC().Format(time.RFC3339), routingKey, body)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
