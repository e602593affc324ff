package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// exchangeName is the durable direct exchange all domain events go
// through.  Each routing key is bound to its own durable queue named
// "cinema.<key>" so consumers can subscribe per event type.
const exchangeName = "cinema.exchange"

// queueName returns the queue bound to a routing key.
func queueName(routingKey string) string {
	return "cinema." + routingKey
}

// AMQPPublisher publishes domain events to RabbitMQ.  It dials per
// publish, which keeps it free of connection state to babysit; events
// are emitted after the database commit and a publish failure is
// logged by the caller, never surfaced to the client.
type AMQPPublisher struct {
	url string
}

// NewAMQPPublisher returns a publisher that connects to the given
// AMQP URL.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

// Publish declares the exchange and the event's queue (idempotent),
// binds them and emits the payload as a persistent JSON message.  Any
// error is logged and returned so the caller can choose to ignore it.
func (p *AMQPPublisher) Publish(ctx context.Context, event string, payload any) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(
		exchangeName, // name
		"direct",     // kind
		true,         // durable
		false,        // autoDelete
		false,        // internal
		false,        // noWait
		nil,          // args
	); err != nil {
		log.Printf("rabbitmq: exchange declare failed: %v", err)
		return err
	}
	if _, err := ch.QueueDeclare(queueName(event), true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}
	if err := ch.QueueBind(queueName(event), event, exchangeName, false, nil); err != nil {
		log.Printf("rabbitmq: queue bind failed: %v", err)
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, exchangeName, event, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish %s failed: %v", event, err)
		return err
	}
	return nil
}
