package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/xor-shift/tangosat/common"
	"github.com/xor-shift/tangosat/config"
	"github.com/xor-shift/tangosat/runner"
)

var (
	app *iris.Application
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("loading dotenv failed: %s", err)
	}

	app = iris.New()
}

func main() {
	publisher, err := common.NewAMQPPublisher(os.Getenv("AMQP_URL"))
	if err != nil {
		log.Fatalln(err)
	}
	defer publisher.Close()

	r := runner.New(publisher)
	r.Start(2)
	defer r.Stop()

	app.Get("/health", func(ctx iris.Context) {
		_, _ = ctx.Text("OK")
	})

	app.Get("/presets", func(ctx iris.Context) {
		presets := map[string]config.Simulation{}
		for _, name := range config.PresetNames() {
			presets[name], _ = config.Preset(name)
		}

		_, _ = ctx.JSON(presets)
	})

	// POST /recover takes a JSON parameter object (missing keys fall back to
	// the reference preset). With ?wait=1 the run happens in the request and
	// the record is returned; otherwise it is queued.
	app.Post("/recover", func(ctx iris.Context) {
		app.Logger().Printf("recovery request from %s", ctx.RemoteAddr())

		body, err := ctx.GetBody()
		if err != nil {
			app.Logger().Printf("/recover error (body): %s", err)
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		if len(body) == 0 {
			body = []byte("{}")
		}

		sim, err := config.LoadJSON(body)
		if err != nil {
			app.Logger().Warnf("/recover rejected parameters: %s", err)
			ctx.StatusCode(iris.StatusBadRequest)
			_, _ = ctx.Text("bad parameters: %s", err)
			return
		}

		if ctx.URLParamDefault("wait", "") != "" {
			rec := runner.Run(sim)
			if err := publisher.Publish(rec); err != nil {
				app.Logger().Printf("/recover publish error: %s", err)
			}

			_, _ = ctx.JSON(rec)
			return
		}

		id, err := r.Submit(sim)
		if err != nil {
			ctx.StatusCode(iris.StatusServiceUnavailable)
			_, _ = ctx.Text("could not queue: %s", err)
			return
		}

		ctx.StatusCode(iris.StatusAccepted)
		_, _ = ctx.Text("+QUEUED %d", id)
	})

	port := os.Getenv("PRODUCER_PORT")
	if port == "" {
		port = "8080"
	}

	if err := app.Listen(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatalln(err)
	}
}
