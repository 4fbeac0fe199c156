package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
)

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
// Satisfied by *secretsmanager.Client in production and a fake in tests.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSClient reads secrets from AWS Secrets Manager.
type AWSClient struct {
	api SecretsManagerAPI
}

// NewAWSClient wraps an existing Secrets Manager API.
func NewAWSClient(api SecretsManagerAPI) *AWSClient {
	return &AWSClient{api: api}
}

// NewAWSClientFromConfig loads the default AWS credential chain. An empty
// region defers to the chain (AWS_REGION, shared config, instance metadata).
func NewAWSClientFromConfig(ctx context.Context, region string) (*AWSClient, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewAWSClient(secretsmanager.NewFromConfig(cfg)), nil
}

// GetSecret returns the SecretString of the current version. A secret stored
// only as SecretBinary yields an empty payload.
func (c *AWSClient) GetSecret(ctx context.Context, id string) (string, error) {
	slog.Debug("fetching secret", "secret", id, "backend", "aws")

	out, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		return "", &StoreError{
			Msg:      apiErrorMessage(err),
			NotFound: errors.As(err, &notFound),
			Err:      err,
		}
	}

	return aws.ToString(out.SecretString), nil
}

// apiErrorMessage returns the service's own message for err, without the
// operation and request metadata the SDK wraps around it.
func apiErrorMessage(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorMessage() != "" {
		return apiErr.ErrorMessage()
	}
	return err.Error()
}
