package main

import (
	"context"
	"fmt"

	"github.com/lox/sambridge/internal/bridge"
	"github.com/lox/sambridge/internal/model"
	"github.com/lox/sambridge/internal/render"
)

// StatusCmd initialises every tier and reports the outcome
type StatusCmd struct {
	JSON bool `help:"Print the status as JSON"`
}

func (c *StatusCmd) Run(g *Globals) error {
	a, err := g.newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	a.bridge.Warm(context.Background())
	tiers := a.bridge.Status()
	artifact := model.StatusOf(a.cfg.Model.Path)

	if c.JSON {
		return printJSON(struct {
			Tiers []bridge.TierStatus `json:"tiers"`
			Model model.Status        `json:"model"`
		}{tiers, artifact})
	}
	fmt.Println(render.Status(tiers))
	fmt.Println(render.ModelStatus(artifact))
	return nil
}
