package handler

import "github.com/Netflix/go-env"

// EnvVars has all environment variables that should be given to Lambda function
type EnvVars struct {
	// From arguments
	BrainS3Bucket  string `env:"BRAIN_S3_BUCKET_NAME"`
	OutputS3Bucket string `env:"OUTPUT_S3_BUCKET"`
	OutputS3Prefix string `env:"OUTPUT_S3_PREFIX"`
	DataFolder     string `env:"DATA_FOLDER"`
	SentryDSN      string `env:"SENTRY_DSN"`
	SentryEnv      string `env:"SENTRY_ENVIRONMENT"`
	LogLevel       string `env:"LOG_LEVEL"`

	// From resource
	CheckpointTableName string `env:"CHECKPOINT_TABLE_NAME"`

	// From AWS Lambda
	AwsRegion string `env:"AWS_REGION"`
}

// BindEnvVars loads environments variables and set them to EnvVars
func (x *EnvVars) BindEnvVars() error {
	if _, err := env.UnmarshalFromEnviron(x); err != nil {
		Logger.WithError(err).Error("Failed UnmarshalFromEviron")
		return err
	}

	return nil
}
