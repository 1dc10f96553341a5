package main

import (
	"github.com/m-mizutani/brainfeed/internal/service"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
)

type exportArguments struct {
	Format string
	Output string
}

func exportAction(args arguments, src sourceArguments, exportArgs exportArguments) error {
	format, err := service.ParseExportFormat(exportArgs.Format)
	if err != nil {
		return err
	}

	ds, result, err := loadSource(args, src)
	if err != nil {
		return err
	}

	exporter := service.NewExportService(args.newS3, args.Region)
	if err := exporter.Export(ds.Schema, result.Records, format, exportArgs.Output); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"dataset": ds.Key,
		"format":  format,
		"output":  exportArgs.Output,
		"records": len(result.Records),
	}).Info("Exported records")

	return nil
}

func exportCommand(args *arguments) *cli.Command {
	var src sourceArguments
	var exportArgs exportArguments

	flags := sourceFlags(&src)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "json, msgpack or parquet",
			Value:       string(service.FormatJSON),
			Destination: &exportArgs.Format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Local path or s3://bucket/key",
			Required:    true,
			Destination: &exportArgs.Output,
		},
	)

	return &cli.Command{
		Name:  "export",
		Usage: "Parse a source file and write records as json, msgpack or parquet",
		Action: func(c *cli.Context) error {
			return exportAction(*args, src, exportArgs)
		},
		Flags: flags,
	}
}
