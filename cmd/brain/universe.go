package main

import (
	"strings"

	"github.com/m-mizutani/brainfeed/pkg/converter"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
)

type universeArguments struct {
	Groups      []string
	Root        string
	SecurityIDs string
}

func universeAction(uniArgs universeArguments) error {
	resolver, err := converter.LoadCSVSecurityResolver(uniArgs.SecurityIDs)
	if err != nil {
		return err
	}

	groups := uniArgs.Groups
	if len(groups) == 0 {
		groups = converter.UniverseGroups()
	}

	builder := converter.NewUniverseBuilder(uniArgs.Root, resolver)
	for _, group := range groups {
		written, err := builder.Build(group)
		if err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"group": group,
			"files": len(written),
		}).Info("Built universe")
	}

	return nil
}

func universeCommand(args *arguments) *cli.Command {
	var uniArgs universeArguments

	return &cli.Command{
		Name:  "universe",
		Usage: "Build daily universe files from per-ticker files",
		Action: func(c *cli.Context) error {
			uniArgs.Groups = c.StringSlice("group")
			return universeAction(uniArgs)
		},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "group",
				Aliases: []string{"g"},
				Usage:   strings.Join(converter.UniverseGroups(), ", ") + " (all if not set)",
			},
			&cli.StringFlag{
				Name:        "root",
				Value:       "data",
				EnvVars:     []string{"DATA_FOLDER"},
				Destination: &uniArgs.Root,
			},
			&cli.StringFlag{
				Name:        "security-ids",
				Usage:       "CSV file of ticker,sid",
				Required:    true,
				Destination: &uniArgs.SecurityIDs,
			},
		},
	}
}
