package infra

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"exusiai.dev/tracediag/internal/app/appconfig"
)

// S3 returns the client used to archive run artifacts, or nil when archiving is disabled.
// Static credentials are used when configured; otherwise the default AWS credential chain applies.
func S3(conf *appconfig.Config) (*s3.Client, error) {
	if !conf.ArchiveEnabled() {
		log.Debug().Msg("S3 archiving is disabled due to missing bucket.")
		return nil, nil
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(conf.ArchiveS3Region),
	}
	if conf.AWSAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AWSAccessKey, conf.AWSSecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load aws config")
	}
	return s3.NewFromConfig(cfg), nil
}
