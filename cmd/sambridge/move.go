package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lox/sambridge/internal/provider"
	"github.com/lox/sambridge/internal/render"
	"github.com/lox/sambridge/internal/server"
)

// MoveCmd picks a move for a game state
type MoveCmd struct {
	Request string `short:"r" required:"" help:"JSON move request file, or - for stdin"`
	Bot     bool   `help:"Play as the bot, declaring Báo Sâm at the opening when the hand warrants it"`
	JSON    bool   `help:"Print the result as JSON"`
	Record  bool   `help:"Persist the decision to the configured store and journal"`
}

func (c *MoveCmd) Run(g *Globals) error {
	req, err := readMoveRequest(c.Request)
	if err != nil {
		return err
	}
	if err := server.ValidateMove(&req); err != nil {
		return err
	}

	a, err := g.newApp(c.Record)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	if c.Bot {
		turn := a.bot.Play(ctx, req)
		if c.JSON {
			return printJSON(turn)
		}
		if turn.Declaration != nil {
			fmt.Println(render.Declaration(req.Record.Hand, *turn.Declaration))
		}
		fmt.Println(render.Move(turn.MoveResult))
		return nil
	}

	res := a.bridge.SelectMove(ctx, req)
	if c.JSON {
		return printJSON(res)
	}
	fmt.Println(render.Move(res))
	return nil
}

func readMoveRequest(path string) (provider.MoveRequest, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return provider.MoveRequest{}, err
		}
		defer f.Close()
		r = f
	}

	var req provider.MoveRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return provider.MoveRequest{}, fmt.Errorf("decode move request: %w", err)
	}
	return req, nil
}
