package main

import (
	"fmt"
	"time"

	"github.com/lox/sambridge/cmd/sambridge/shared"
	"github.com/lox/sambridge/internal/render"
	"github.com/lox/sambridge/internal/simulate"
)

// SimulateCmd deals random tables through the bridge
type SimulateCmd struct {
	Deals   int    `default:"100" help:"Tables to deal"`
	Players int    `default:"4" help:"Players per table"`
	Seed    *int64 `help:"Deterministic RNG seed (optional)"`
	Workers int    `default:"0" help:"Concurrent workers (0 = NumCPU)"`
	Moves   bool   `help:"Also ask the move chain for each hand's opening lead"`
	JSON    bool   `help:"Print the report as JSON"`
	Record  bool   `help:"Persist every decision to the configured store and journal"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	a, err := g.newApp(c.Record)
	if err != nil {
		return err
	}
	defer a.Close()

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	ctx, cancel := shared.SetupSignalHandler(a.logger)
	defer cancel()

	sim := simulate.New(a.bridge, simulate.Config{
		Deals:   c.Deals,
		Players: c.Players,
		Seed:    seed,
		Workers: c.Workers,
		Moves:   c.Moves,
		Logger:  a.logger,
	})
	report, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(report)
	}
	fmt.Println(render.Report(report))
	return nil
}
