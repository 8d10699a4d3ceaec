package main

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/xor-shift/tangosat/common"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("loading dotenv failed: %s", err)
	}
}

func main() {
	var err error

	var consumer *common.AMQPConsumer
	var app *iris.Application

	var mu sync.Mutex
	var lastRecord common.RunRecord
	var seen, exact int

	if consumer, err = common.NewAMQPConsumer(
		os.Getenv("AMQP_URL"),
		"consumer_fe_queue",
		"consumer_fe_consumer",
		func(record common.RunRecord) error {
			log.Printf("run: bits=%d hci=%d num_obs=%d %s exact=%v in %s",
				record.Bits,
				record.HCI,
				record.NumObs,
				record.Status,
				record.Exact,
				record.SolveTime)

			mu.Lock()
			defer mu.Unlock()

			lastRecord = record
			seen++
			if record.Exact {
				exact++
			}

			return nil
		}); err != nil {
		log.Fatalln(err)
	}

	if err = consumer.Start(); err != nil {
		log.Fatalln(err)
	}

	app = iris.New()

	app.Get("/test", func(ctx iris.Context) {
		_, _ = ctx.Text("OK")
	})

	app.Get("/data", func(ctx iris.Context) {
		mu.Lock()
		defer mu.Unlock()

		_, _ = ctx.JSON(lastRecord)
	})

	app.Get("/summary", func(ctx iris.Context) {
		mu.Lock()
		defer mu.Unlock()

		_, _ = ctx.JSON(map[string]int{"runs": seen, "exact": exact})
	})

	if err = app.Listen(fmt.Sprintf(":%s", os.Getenv("CONSUMER_FE_PORT"))); err != nil {
		log.Fatalln(err)
	}
}
