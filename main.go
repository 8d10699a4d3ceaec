package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/xor-shift/tangosat/common"
	"github.com/xor-shift/tangosat/config"
	"github.com/xor-shift/tangosat/keyrec"
	"github.com/xor-shift/tangosat/runner"
	"github.com/xor-shift/tangosat/store"
)

func init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("loading dotenv failed: %s", err)
	}
}

type SimulationFlags struct {
	Preset string `name:"preset" short:"p" default:"reference" help:"Built-in parameter set to start from"`
	Params string `name:"params" help:"JSON parameter file, applied over the preset"`
	Solver string `name:"solver" help:"SAT backend (gini, gophersat)"`
	NumObs int    `name:"num-obs" default:"-1" help:"Override the number of observation groups"`
	HCI    int    `name:"hci" default:"-1" help:"Override the number of keyed hash lanes"`
}

// load resolves preset, then parameter file, then TANGO_* variables, then flags.
func (f SimulationFlags) load() (config.Simulation, error) {
	sim, err := config.Preset(f.Preset)
	if err != nil {
		return sim, err
	}

	if f.Params != "" {
		raw, err := config.ReadFile(f.Params)
		if err != nil {
			return sim, err
		}
		if sim, err = config.Decode(sim, raw); err != nil {
			return sim, err
		}
	}

	if sim, err = config.FromEnv(sim); err != nil {
		return sim, err
	}

	overrides := map[string]interface{}{}
	if f.Solver != "" {
		overrides["solver"] = f.Solver
	}
	if f.NumObs >= 0 {
		overrides["num_obs"] = f.NumObs
	}
	if f.HCI >= 0 {
		overrides["hci"] = f.HCI
	}

	return config.Decode(sim, overrides)
}

type recoverCmd struct {
	SimulationFlags `embed:""`

	Publish bool `name:"publish" help:"Publish the run record to AMQP_URL"`
	Store   bool `name:"store" help:"Insert the run record into the database"`
}

func (c *recoverCmd) Run() error {
	sim, err := c.load()
	if err != nil {
		return err
	}

	rec := runner.Run(sim)
	if rec.Error != "" {
		return fmt.Errorf("recovery failed: %s", rec.Error)
	}

	p := sim.Params()
	fmt.Printf("solver %s: %s in %s (%d unknowns, %d vars, %d clauses)\n",
		rec.Solver, rec.Status, rec.SolveTime, rec.Unknowns, rec.Vars, rec.Clauses)

	if rec.Status == "sat" {
		fmt.Printf("seed = %4d (%4d)\n", rec.Recovered.Seed, rec.TrueKey.Seed)
		fmt.Printf("seed1= %4d (%4d)\n", rec.Recovered.Seed1, rec.TrueKey.Seed1)
		for i := 0; i < p.HCI; i++ {
			fmt.Printf("hash = %4d (%4d)\n", rec.Recovered.Hash[i], rec.TrueKey.Hash[i])
		}
		fmt.Printf("exact: %v, reproduces observations: %v\n", rec.Exact, rec.Consistent)
	}

	if c.Store {
		s, err := store.Open(store.ConfigFromEnv())
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		if err = s.Migrate(ctx); err != nil {
			return err
		}
		if rec.RunID, err = s.Insert(ctx, rec); err != nil {
			return err
		}
		log.Printf("stored as run %d", rec.RunID)
	}

	if c.Publish {
		pub, err := common.NewAMQPPublisher(os.Getenv("AMQP_URL"))
		if err != nil {
			return err
		}
		defer pub.Close()

		if err = pub.Publish(rec); err != nil {
			return err
		}
	}

	return nil
}

type trialsCmd struct {
	SimulationFlags `embed:""`

	Count   int    `name:"count" short:"n" default:"10" help:"Number of random keys to attack"`
	RNGSeed uint64 `name:"rng-seed" default:"1" help:"Seed of the key generator"`
}

func (c *trialsCmd) Run() error {
	sim, err := c.load()
	if err != nil {
		return err
	}

	backend, err := sim.Backend()
	if err != nil {
		return err
	}

	p := sim.Params()
	trials, err := keyrec.Trials(p, c.Count, c.RNGSeed, backend)
	if err != nil {
		return err
	}

	var exact, consistent int
	var total time.Duration
	for _, tr := range trials {
		res := tr.Result
		fmt.Printf("%3d  key %s  %-6s exact=%-5v consistent=%-5v %s\n",
			tr.Index, tr.Key.Hex(p), res.Status, res.Exact, res.Consistent, res.Stats.SolveTime)

		if res.Exact {
			exact++
		}
		if res.Consistent {
			consistent++
		}
		total += res.Stats.SolveTime
	}

	if len(trials) > 0 {
		fmt.Printf("%d/%d exact, %d/%d consistent, mean solve time %s\n",
			exact, len(trials), consistent, len(trials), total/time.Duration(len(trials)))
	}

	return nil
}

type simulateCmd struct {
	SimulationFlags `embed:""`
}

func (c *simulateCmd) Run() error {
	sim, err := c.load()
	if err != nil {
		return err
	}

	obs, err := keyrec.Simulate(sim.Params(), sim.Key())
	if err != nil {
		return err
	}

	for i := 0; i < len(obs); i += 4 {
		words := make([]string, 0, 4)
		for _, w := range obs[i : i+4] {
			words = append(words, fmt.Sprintf("%d", w))
		}
		fmt.Printf("%3d: %s\n", i/4, strings.Join(words, " "))
	}

	return nil
}

var cli struct {
	Recover  recoverCmd  `cmd:"" default:"1" help:"Simulate a run and recover its key"`
	Trials   trialsCmd   `cmd:"" help:"Attack random keys and summarise solve times"`
	Simulate simulateCmd `cmd:"" help:"Print the observation log of a run"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("tangosat"),
		kong.Description("Keystream generator key recovery through SAT solving"),
		kong.UsageOnError())

	if err := ctx.Run(); err != nil {
		log.Fatalln(err)
	}
}
