package main

import (
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/brainfeed/internal"
	"github.com/m-mizutani/brainfeed/pkg/api"
	"github.com/m-mizutani/brainfeed/pkg/handler"
	"github.com/sirupsen/logrus"
)

var logger = internal.Logger

// maxBodySize is the payload limit of API Gateway.
const maxBodySize = 10 * 1024 * 1024

func newProxy(envVars handler.EnvVars) *ginadapter.GinLambda {
	gin.SetMode(gin.ReleaseMode)
	args := api.Arguments{
		DataFolder:  envVars.DataFolder,
		MaxBodySize: maxBodySize,
	}
	if args.DataFolder == "" {
		args.DataFolder = "data"
	}
	return ginadapter.New(api.NewEngine(args))
}

func main() {
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	var envVars handler.EnvVars
	if err := envVars.BindEnvVars(); err != nil {
		logger.WithError(err).Fatal("Fail to load environment variables")
	}
	if envVars.LogLevel != "" {
		if err := internal.SetLogLevel(envVars.LogLevel); err != nil {
			logger.WithError(err).Fatal("Invalid LOG_LEVEL")
		}
	}
	if err := internal.InitErrorHandler(envVars.SentryDSN, envVars.SentryEnv); err != nil {
		logger.WithError(err).Error("Fail to initialize error handler")
		os.Exit(1)
	}

	proxy := newProxy(envVars)
	lambda.Start(func(req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		defer internal.FlushError()
		logger.WithFields(logrus.Fields{
			"method": req.HTTPMethod,
			"path":   req.Path,
		}).Debug("Entering handler")
		return proxy.Proxy(req)
	})
}
