package support

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

const maxAttempts = 5

// AWSConfig loads the default credential chain and region. SDK calls are
// traced and throttled requests are retried.
func AWSConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRetryer(func() aws.Retryer {
		return retry.AddWithMaxAttempts(retry.NewStandard(), maxAttempts)
	}))
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "failed to load aws config")
	}

	otelaws.AppendMiddlewares(&cfg.APIOptions)

	return cfg, nil
}
