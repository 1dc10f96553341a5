package main

import (
	"os"

	"github.com/m-mizutani/brainfeed/internal"
	"github.com/m-mizutani/brainfeed/internal/adaptor"
	"github.com/m-mizutani/brainfeed/pkg/converter"
	cli "github.com/urfave/cli/v2"
)

var logger = internal.Logger

type arguments struct {
	LogLevel  string
	LogFormat string
	SentryDSN string
	SentryEnv string
	Region    string

	newS3 adaptor.S3ClientFactory
}

func (x arguments) setup() error {
	if err := internal.SetLogLevel(x.LogLevel); err != nil {
		return err
	}
	if err := internal.SetLogFormat(x.LogFormat); err != nil {
		return err
	}
	return internal.InitErrorHandler(x.SentryDSN, x.SentryEnv)
}

func newApp(args *arguments) *cli.App {
	return &cli.App{
		Name:  "brain",
		Usage: "Parse, export and convert Brain alternative data feeds",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Aliases:     []string{"l"},
				Value:       "info",
				EnvVars:     []string{"LOG_LEVEL"},
				Destination: &args.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Value:       "text",
				Usage:       "text or json",
				EnvVars:     []string{"LOG_FORMAT"},
				Destination: &args.LogFormat,
			},
			&cli.StringFlag{
				Name:        "sentry-dsn",
				EnvVars:     []string{"SENTRY_DSN"},
				Destination: &args.SentryDSN,
			},
			&cli.StringFlag{
				Name:        "sentry-env",
				EnvVars:     []string{"SENTRY_ENVIRONMENT"},
				Destination: &args.SentryEnv,
			},
			&cli.StringFlag{
				Name:        "region",
				Aliases:     []string{"r"},
				Usage:       "AWS region",
				Value:       converter.DefaultRegion,
				EnvVars:     []string{"AWS_REGION"},
				Destination: &args.Region,
			},
		},
		Before: func(c *cli.Context) error {
			return args.setup()
		},
		Commands: []*cli.Command{
			readCommand(args),
			exportCommand(args),
			pathCommand(args),
			convertCommand(args),
			universeCommand(args),
			serveCommand(args),
		},
	}
}

func main() {
	args := &arguments{newS3: adaptor.NewS3Client}

	err := newApp(args).Run(os.Args)
	if err != nil {
		internal.HandleError(err)
		internal.FlushError()
		os.Exit(1)
	}
	internal.FlushError()
}
