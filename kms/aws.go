package kms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/ruteri/push-notification-server/interfaces"
)

// AWSSecretsManagerSource reads the key pair from a JSON secret in AWS Secrets Manager.
type AWSSecretsManagerSource struct {
	client   *secretsmanager.SecretsManager
	secretID string
}

// NewAWSSecretsManagerSource creates a Secrets Manager source.
// Static credentials are used when accessKey and secretKey are both set, otherwise
// the default AWS credential chain applies. endpoint overrides the service
// endpoint (e.g. for LocalStack).
func NewAWSSecretsManagerSource(secretID, region, endpoint, accessKey, secretKey string) (*AWSSecretsManagerSource, error) {
	if secretID == "" {
		return nil, errors.New("secret id is required")
	}

	cfg := aws.Config{
		Region: aws.String(region),
	}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	if accessKey != "" && secretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &AWSSecretsManagerSource{
		client:   secretsmanager.New(sess),
		secretID: secretID,
	}, nil
}

func (s *AWSSecretsManagerSource) Load(ctx context.Context) (interfaces.VAPIDKeys, error) {
	out, err := s.client.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretID),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == secretsmanager.ErrCodeResourceNotFoundException {
			return interfaces.VAPIDKeys{}, nil
		}
		return interfaces.VAPIDKeys{}, fmt.Errorf("failed to get secret %s: %w", s.secretID, err)
	}

	if out.SecretString == nil {
		return interfaces.VAPIDKeys{}, nil
	}

	var doc struct {
		PublicKey  string `json:"public_key"`
		PrivateKey string `json:"private_key"`
	}
	if err := json.Unmarshal([]byte(*out.SecretString), &doc); err != nil {
		return interfaces.VAPIDKeys{}, fmt.Errorf("secret %s is not a JSON document: %w", s.secretID, err)
	}

	return interfaces.VAPIDKeys{PublicKey: doc.PublicKey, PrivateKey: doc.PrivateKey}, nil
}

func (s *AWSSecretsManagerSource) Name() string {
	return fmt.Sprintf("aws-secretsmanager(%s)", s.secretID)
}
