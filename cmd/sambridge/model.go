package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/lox/sambridge/internal/model"
	"github.com/lox/sambridge/internal/render"
)

// ModelCmd groups artifact management commands
type ModelCmd struct {
	Init    ModelInitCmd    `cmd:"" help:"Write an untrained artifact scaffold"`
	Inspect ModelInspectCmd `cmd:"" help:"Describe an artifact without loading it into a tier"`
}

// ModelInitCmd writes a seeded, untrained artifact
type ModelInitCmd struct {
	Out   string `short:"o" required:"" help:"Destination path"`
	Seed  int64  `default:"1" help:"Seed for the initial weights"`
	Force bool   `help:"Overwrite an existing file"`
}

func (c *ModelInitCmd) Run() error {
	if !c.Force {
		if _, err := os.Stat(c.Out); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", c.Out)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if err := model.NewUntrained(c.Seed, time.Now()).Save(c.Out); err != nil {
		return err
	}
	fmt.Printf("Wrote untrained artifact to %s\n", c.Out)
	return nil
}

// ModelInspectCmd prints an artifact's status
type ModelInspectCmd struct {
	Path string `arg:"" help:"Artifact path"`
	JSON bool   `help:"Print the status as JSON"`
}

func (c *ModelInspectCmd) Run() error {
	st := model.StatusOf(c.Path)
	if c.JSON {
		return printJSON(st)
	}
	fmt.Println(render.ModelStatus(st))
	return nil
}
