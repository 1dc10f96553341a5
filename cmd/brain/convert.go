package main

import (
	"fmt"

	"github.com/m-mizutani/brainfeed/internal/repository"
	"github.com/m-mizutani/brainfeed/pkg/converter"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
)

type convertArguments struct {
	Dataset        string
	Bucket         string
	Date           string
	History        bool
	DataFolder     string
	OutputRoot     string
	CheckpointName string
}

func convertAction(args arguments, convArgs convertArguments) error {
	if convArgs.Date == "" && !convArgs.History {
		return fmt.Errorf("Either --date or --history is required")
	}

	cfg := converter.Config{
		Region:     args.Region,
		Bucket:     convArgs.Bucket,
		DataFolder: convArgs.DataFolder,
		OutputRoot: convArgs.OutputRoot,
		NewS3:      args.newS3,
	}
	if convArgs.CheckpointName != "" {
		cfg.Checkpoint = repository.NewCheckpointDynamoDB(args.Region, convArgs.CheckpointName)
	}

	c, err := converter.New(convArgs.Dataset, cfg)
	if err != nil {
		return err
	}

	var written []string
	if convArgs.History {
		written, err = c.ProcessHistory()
	} else {
		written, err = c.ProcessDate(convArgs.Date)
	}
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"converter": c.Name(),
		"files":     len(written),
	}).Info("Converted vendor files")

	return nil
}

func convertCommand(args *arguments) *cli.Command {
	var convArgs convertArguments

	return &cli.Command{
		Name:  "convert",
		Usage: "Convert vendor drops (BLMECT, BWPV) into per-ticker files",
		Action: func(c *cli.Context) error {
			return convertAction(*args, convArgs)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dataset",
				Aliases:     []string{"d"},
				Usage:       "BLMECT or BWPV",
				Required:    true,
				Destination: &convArgs.Dataset,
			},
			&cli.StringFlag{
				Name:        "bucket",
				Aliases:     []string{"b"},
				EnvVars:     []string{"BRAIN_S3_BUCKET_NAME"},
				Required:    true,
				Destination: &convArgs.Bucket,
			},
			&cli.StringFlag{
				Name:        "date",
				Usage:       "Deployment date (yyyyMMdd)",
				EnvVars:     []string{"QC_DATAFLEET_DEPLOYMENT_DATE"},
				Destination: &convArgs.Date,
			},
			&cli.BoolFlag{
				Name:        "history",
				Usage:       "Convert every deployment date in the bucket",
				Destination: &convArgs.History,
			},
			&cli.StringFlag{
				Name:        "data-folder",
				Usage:       "Directory of files converted before",
				EnvVars:     []string{"DATA_FOLDER"},
				Destination: &convArgs.DataFolder,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Value:       "output",
				EnvVars:     []string{"OUTPUT_ROOT"},
				Destination: &convArgs.OutputRoot,
			},
			&cli.StringFlag{
				Name:        "checkpoint-table",
				EnvVars:     []string{"CHECKPOINT_TABLE_NAME"},
				Destination: &convArgs.CheckpointName,
			},
		},
	}
}
