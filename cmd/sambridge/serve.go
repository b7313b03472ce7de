package main

import (
	"github.com/lox/sambridge/cmd/sambridge/shared"
	"github.com/lox/sambridge/internal/server"
)

// ServeCmd runs the decision server
type ServeCmd struct {
	Addr         string   `help:"Listen address, overrides the configured host and port"`
	AllowOrigins []string `name:"allow-origin" help:"Browser origins allowed to call the API"`
	Warm         bool     `default:"true" negatable:"" help:"Initialise every tier before accepting requests"`
}

func (c *ServeCmd) Run(g *Globals) error {
	a, err := g.newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := shared.SetupSignalHandler(a.logger)
	defer cancel()

	if c.Warm {
		a.bridge.Warm(ctx)
		for _, t := range a.bridge.Status() {
			if t.Error != "" {
				a.logger.Warn("Tier unavailable", "chain", t.Chain, "tier", t.Tier, "provider", t.Provider, "error", t.Error)
			}
		}
	}

	opts := server.Options{
		Bridge:         a.bridge,
		Bot:            a.bot,
		AllowedOrigins: c.AllowOrigins,
	}
	// Assigned only when open so the interfaces do not hold typed nils
	if a.store != nil {
		opts.Outcomes = a.store
	}
	if a.journal != nil {
		opts.Journal = a.journal
	}

	addr := c.Addr
	if addr == "" {
		addr = a.cfg.Addr()
	}
	return server.New(opts, a.logger).Run(ctx, addr)
}
