package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Presigner issues time-limited GET URLs for objects in a single bucket.
type Presigner struct {
	client *s3.PresignClient
	bucket string
}

// NewPresigner loads the default AWS credential chain for region and returns a
// presigner bound to bucket.
func NewPresigner(ctx context.Context, region, bucket string) (*Presigner, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewPresignerFromClient(s3.NewFromConfig(cfg), bucket), nil
}

// NewPresignerFromClient wraps an existing S3 client.
func NewPresignerFromClient(client *s3.Client, bucket string) *Presigner {
	return &Presigner{client: s3.NewPresignClient(client), bucket: bucket}
}

// SignGetURL generates a presigned GET URL for key valid for expires.
// Signing happens locally; no request is made to S3.
func (p *Presigner) SignGetURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if key == "" {
		return "", errors.New("empty object key")
	}

	request, err := p.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %w", err)
	}

	return request.URL, nil
}
