package common

import (
	"log"
	"sync"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

// RunsExchange is the fanout exchange finished runs are published on.
const RunsExchange = "recovery_runs"

func declareRunsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		RunsExchange, // name
		"fanout",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
}

type AMQPPublisher struct {
	amqpConn *amqp.Connection
	amqpChan *amqp.Channel
	mu       sync.Mutex
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	var err error
	publisher := AMQPPublisher{}

	if publisher.amqpConn, err = amqp.Dial(url); err != nil {
		return nil, errors.Wrap(err, "dialing amqp")
	}

	if publisher.amqpChan, err = publisher.amqpConn.Channel(); err != nil {
		_ = publisher.amqpConn.Close()
		return nil, err
	}

	if err = declareRunsExchange(publisher.amqpChan); err != nil {
		_ = publisher.amqpChan.Close()
		_ = publisher.amqpConn.Close()
		return nil, err
	}

	return &publisher, nil
}

// Publish sends a record to every queue bound to the runs exchange. It is
// safe for concurrent use.
func (p *AMQPPublisher) Publish(record RunRecord) error {
	body, err := EncodeRunRecord(record)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.amqpChan.Publish(
		RunsExchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType: "application/octet-stream",
			Body:        body,
		})
}

func (p *AMQPPublisher) Close() error {
	if err := p.amqpChan.Close(); err != nil {
		return err
	}

	return p.amqpConn.Close()
}

type AMQPConsumer struct {
	amqpConn  *amqp.Connection
	amqpChan  *amqp.Channel
	amqpQueue amqp.Queue

	queueName    string
	consumerName string

	amqpConsumer <-chan amqp.Delivery
	callback     func(RunRecord) error
	wg           sync.WaitGroup
}

// NewAMQPConsumer binds an exclusive queue to the runs exchange. callback is
// called with every record that decodes.
func NewAMQPConsumer(url, queueName, consumerName string, callback func(RunRecord) error) (*AMQPConsumer, error) {
	var err error
	consumer := AMQPConsumer{
		callback: callback,

		queueName:    queueName,
		consumerName: consumerName,
	}

	if consumer.amqpConn, err = amqp.Dial(url); err != nil {
		return nil, errors.Wrap(err, "dialing amqp")
	}

	if consumer.amqpChan, err = consumer.amqpConn.Channel(); err != nil {
		_ = consumer.amqpConn.Close()
		return nil, err
	}

	if err = declareRunsExchange(consumer.amqpChan); err != nil {
		_ = consumer.amqpChan.Close()
		_ = consumer.amqpConn.Close()
		return nil, err
	}

	if consumer.amqpQueue, err = consumer.amqpChan.QueueDeclare(
		queueName, // name
		false,     // durable
		false,     // delete when unused
		true,      // exclusive
		false,     // no-wait
		nil,       // arguments
	); err != nil {
		_ = consumer.amqpChan.Close()
		_ = consumer.amqpConn.Close()
		return nil, err
	}

	if err = consumer.amqpChan.QueueBind(
		consumer.amqpQueue.Name, // queue name
		"",                      // routing key
		RunsExchange,            // exchange
		false,
		nil,
	); err != nil {
		_ = consumer.amqpChan.Close()
		_ = consumer.amqpConn.Close()
		return nil, err
	}

	return &consumer, nil
}

func (c *AMQPConsumer) Start() error {
	var err error

	if c.amqpConsumer, err = c.amqpChan.Consume(
		c.amqpQueue.Name, // queue
		c.consumerName,   // consumer
		true,             // auto-ack
		false,            // exclusive
		false,            // no-local
		false,            // no-wait
		nil,              // args
	); err != nil {
		return err
	}

	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		for delivery := range c.amqpConsumer {
			c.handle(&delivery)
		}
	}()

	return nil
}

func (c *AMQPConsumer) handle(delivery *amqp.Delivery) {
	record, err := ParseAMQPRecord(delivery)
	if err != nil {
		log.Printf("%s: dropping delivery: %s", c.consumerName, err)
		return
	}

	if err = c.callback(record); err != nil {
		log.Printf("%s: handling run %d: %s", c.consumerName, record.RunID, err)
	}
}

func (c *AMQPConsumer) Stop() error {
	return c.amqpChan.Cancel(c.consumerName, false)
}

func (c *AMQPConsumer) Wait() {
	c.wg.Wait()
}

func (c *AMQPConsumer) Close() error {
	var err error

	if err = c.amqpChan.Close(); err != nil {
		return err
	}

	if err = c.amqpConn.Close(); err != nil {
		return err
	}

	return nil
}
