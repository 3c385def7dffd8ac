package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/AJ1732/ts-server/internal/logger"
)

// S3Configuration holds the settings for the S3 driver.
type S3Configuration struct {
	Region    string
	Bucket    string
	AccessID  string
	AccessKey string
}

// S3 stores objects in an AWS S3 bucket.
type S3 struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	region  string
}

// NewS3 returns a new S3 driver.
func NewS3(ctx context.Context, cfg S3Configuration) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name must not be empty")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessID, cfg.AccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg)
	logger.Default().Debugln("S3 blob store enabled, bucket ", cfg.Bucket)
	return &S3{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		region:  cfg.Region,
	}, nil
}

// Upload puts content under a fresh key and returns its metadata.
func (s *S3) Upload(ctx context.Context, folder, originalName, contentType string, content []byte) (*UploadResult, error) {
	key := NewKey(folder, originalName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"original-name": originalName,
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return &UploadResult{
		Key:          key,
		Location:     fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key),
		OriginalName: originalName,
		Size:         int64(len(content)),
		MimeType:     contentType,
	}, nil
}

// Delete removes the object with the given key. Deleting a key that does not
// exist returns nil.
func (s *S3) Delete(ctx context.Context, key string) error {
	if key == "" {
		logger.FromContext(ctx).Warn("attempted to delete blob with empty key")
		return nil
	}

	exists, err := s.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("could not delete ", key)
		return err
	}
	return nil
}

// Exists reports whether the key refers to a stored object.
func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns all keys under the given prefix.
func (s *S3) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var continuationToken *string
	for {
		resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return nil, err
		}
		for _, item := range resp.Contents {
			keys = append(keys, *item.Key)
		}
		continuationToken = resp.NextContinuationToken
		if continuationToken == nil {
			break
		}
	}
	return keys, nil
}

// SignedURL returns a time-limited GET URL for the key.
func (s *S3) SignedURL(ctx context.Context, key string, expireIn time.Duration) (string, error) {
	resp, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expireIn))
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}
