package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/m-mizutani/brainfeed/pkg/brain"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
)

type pathArguments struct {
	Dataset string
	Root    string
	Symbol  string
	Date    string
}

func pathAction(w io.Writer, pathArgs pathArguments) error {
	ds, ok := brain.Lookup(pathArgs.Dataset)
	if !ok {
		return fmt.Errorf("Unknown dataset: %s", pathArgs.Dataset)
	}

	date := time.Now().UTC()
	if pathArgs.Date != "" {
		d, err := time.Parse("20060102", pathArgs.Date)
		if err != nil {
			return errors.Wrapf(err, "Invalid date: %s", pathArgs.Date)
		}
		date = d
	}

	symbol := models.NewSymbol(pathArgs.Symbol)
	if ds.RequiresMapping && symbol.IsZero() {
		return fmt.Errorf("--symbol is required for dataset %s", ds.Key)
	}

	_, err := fmt.Fprintln(w, ds.SourcePath(pathArgs.Root, symbol, date))
	return err
}

func pathCommand(args *arguments) *cli.Command {
	var pathArgs pathArguments

	return &cli.Command{
		Name:  "path",
		Usage: "Print the source file path of a dataset",
		Action: func(c *cli.Context) error {
			return pathAction(os.Stdout, pathArgs)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dataset",
				Aliases:     []string{"d"},
				Required:    true,
				Destination: &pathArgs.Dataset,
			},
			&cli.StringFlag{
				Name:        "root",
				Value:       "data",
				EnvVars:     []string{"DATA_FOLDER"},
				Destination: &pathArgs.Root,
			},
			&cli.StringFlag{
				Name:        "symbol",
				Destination: &pathArgs.Symbol,
			},
			&cli.StringFlag{
				Name:        "date",
				Usage:       "yyyyMMdd, today if not set",
				Destination: &pathArgs.Date,
			},
		},
	}
}
