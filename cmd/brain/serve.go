package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/brainfeed/pkg/api"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
)

type serveArguments struct {
	Addr string
	Port int
}

func serveCommand(args *arguments) *cli.Command {
	var apiArgs api.Arguments
	var params serveArguments

	return &cli.Command{
		Name:  "serve",
		Usage: "Run dataset API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Aliases:     []string{"a"},
				Value:       "127.0.0.1",
				Usage:       "Bind address",
				Destination: &params.Addr,
			},
			&cli.IntFlag{
				Name:        "port",
				Aliases:     []string{"p"},
				Value:       10080,
				Usage:       "Bind port number",
				Destination: &params.Port,
			},
			&cli.StringFlag{
				Name:        "root",
				Value:       "data",
				EnvVars:     []string{"DATA_FOLDER"},
				Usage:       "Default root of source paths",
				Destination: &apiArgs.DataFolder,
			},
			&cli.Int64Flag{
				Name:        "max-body-size",
				Value:       64 * 1024 * 1024,
				Usage:       "Limit of a posted source in bytes",
				Destination: &apiArgs.MaxBodySize,
			},
		},
		Action: func(c *cli.Context) error {
			logger.WithFields(logrus.Fields{
				"args":   apiArgs,
				"params": params,
			}).Info("Start API server")

			r := gin.Default()
			v1 := r.Group("/api/v1")
			api.SetupRoute(v1, apiArgs)

			bindAddr := fmt.Sprintf("%s:%d", params.Addr, params.Port)
			return r.Run(bindAddr)
		},
	}
}
