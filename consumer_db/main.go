package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/xor-shift/tangosat/common"
	"github.com/xor-shift/tangosat/store"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("loading dotenv failed: %s", err)
	}
}

func main() {
	var err error

	var db *store.Store
	var consumer *common.AMQPConsumer

	if db, err = store.Open(store.ConfigFromEnv()); err != nil {
		log.Fatalln(err)
	}
	defer db.Close()

	if err = db.Migrate(context.TODO()); err != nil {
		log.Fatalf("Failed to create the runs table: %s", err)
	}

	if consumer, err = common.NewAMQPConsumer(
		os.Getenv("AMQP_URL"),
		"run_queue_db",
		"consumer_db",
		func(record common.RunRecord) error {
			id, err := db.Insert(context.TODO(), record)
			if err != nil {
				return err
			}

			log.Printf("stored %s run (bits=%d, hci=%d) as %d", record.Status, record.Bits, record.HCI, id)
			return nil
		}); err != nil {
		log.Fatalf("Failed to set up the amqp consumer: %s", err)
	}

	if err = consumer.Start(); err != nil {
		log.Fatalf("Failed to start consuming: %s", err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt

	if err = consumer.Stop(); err != nil {
		log.Printf("stopping the consumer: %s", err)
	}
	consumer.Wait()

	if err = consumer.Close(); err != nil {
		log.Printf("closing the consumer: %s", err)
	}
}
