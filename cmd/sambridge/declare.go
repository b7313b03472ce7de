package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/provider"
	"github.com/lox/sambridge/internal/render"
	"github.com/lox/sambridge/internal/server"
)

// DeclareCmd scores a single hand
type DeclareCmd struct {
	Cards   []string `arg:"" help:"Cards in the hand, e.g. 2s 2h Ah Kd"`
	Players int      `default:"4" help:"Players at the table"`
	JSON    bool     `help:"Print the result as JSON"`
	Record  bool     `help:"Persist the decision to the configured store and journal"`
}

func (c *DeclareCmd) Run(g *Globals) error {
	hand, err := cards.ParseHand(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}
	req := provider.DeclarationRequest{Hand: hand, PlayerCount: c.Players}
	if err := server.ValidateDeclaration(&req); err != nil {
		return err
	}

	a, err := g.newApp(c.Record)
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.bridge.Declare(context.Background(), req)
	if c.JSON {
		return printJSON(res)
	}
	fmt.Println(render.Declaration(req.Hand, res))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
