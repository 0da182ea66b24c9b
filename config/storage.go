package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client        *s3.Client
	BucketName    string
	PublicBaseURL string
}

// NewS3Config initializes the S3 client from the application configuration
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	// Load AWS credentials from environment or shared config
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewS3ConfigFromAWS(awsCfg, cfg.S3Bucket, cfg.S3Endpoint, cfg.S3PublicBaseURL), nil
}

// NewS3ConfigFromAWS builds an S3Config from an already resolved aws.Config.
// A non-empty endpoint switches to path-style addressing (MinIO, LocalStack).
func NewS3ConfigFromAWS(awsCfg aws.Config, bucket, endpoint, publicBaseURL string) *S3Config {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, awsCfg.Region)
	}

	return &S3Config{
		Client:        client,
		BucketName:    bucket,
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// PublicURL returns the public URL an uploaded object will be served from
func (s *S3Config) PublicURL(objectKey string) string {
	return s.PublicBaseURL + "/" + strings.TrimLeft(objectKey, "/")
}

// GeneratePresignedUploadURL generates a presigned PUT URL for the given object key
func (s *S3Config) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expiration time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(s.Client)
	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.BucketName),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
