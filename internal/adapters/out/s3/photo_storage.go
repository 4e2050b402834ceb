// Package s3 stores job photos in an S3 bucket. Clients upload directly to
// presigned PUT URLs.
package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"junkos/internal/core/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var _ ports.PhotoStorage = (*PhotoStorage)(nil)

type PhotoStorage struct {
	presigner *s3.PresignClient
	bucket    string
	baseURL   string
}

// NewPhotoStorage loads the default AWS credential chain. publicBaseURL
// overrides the bucket URL, e.g. for a CDN in front of the bucket.
func NewPhotoStorage(ctx context.Context, region, bucket, publicBaseURL string) (*PhotoStorage, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewPhotoStorageWithClient(s3.NewFromConfig(cfg), region, bucket, publicBaseURL)
}

func NewPhotoStorageWithClient(client *s3.Client, region, bucket, publicBaseURL string) (*PhotoStorage, error) {
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &PhotoStorage{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		baseURL:   strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

func (s *PhotoStorage) PresignUpload(
	ctx context.Context,
	key, contentType string,
	ttl time.Duration,
) (uploadURL, publicURL string, err error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", "", errors.New("s3: object key is required")
	}

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return req.URL, s.baseURL + "/" + key, nil
}
