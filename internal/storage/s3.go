package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	appconfig "LetterHunt/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// S3Store is the production BlobStore, writing image objects under a
// folder prefix in one bucket. The bucket policy is expected to allow
// public reads; objects are addressed by base_url + key.
type S3Store struct {
	client  *s3.Client
	bucket  string
	folder  string
	baseURL string
	logger  *logrus.Logger
}

// NewS3Store builds an S3Store from storage config. Static credentials
// are used when both keys are set, otherwise the default AWS chain.
func NewS3Store(ctx context.Context, cfg appconfig.StorageConfig, logger *logrus.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Store{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		folder:  strings.Trim(cfg.Folder, "/"),
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:  logger,
	}, nil
}

func (s *S3Store) objectKey(key string) string {
	if s.folder == "" {
		return key
	}
	return s.folder + "/" + key
}

// Put uploads body under key and returns the public object URL.
func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	objectKey := s.objectKey(key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", objectKey, err)
	}
	s.logger.WithField("key", objectKey).WithField("size", len(body)).Debug("uploaded image to S3")
	return s.baseURL + "/" + objectKey, nil
}

// Delete removes the object under key. Used as the compensating action
// when the submission record fails to persist after a successful Put.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	objectKey := s.objectKey(key)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", objectKey, err)
	}
	return nil
}

// Healthy probes bucket access with a one-key listing.
func (s *S3Store) Healthy(ctx context.Context) error {
	_, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(s.folder),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("s3 list %s: %w", s.bucket, err)
	}
	return nil
}
