// Package storage archives rendered PDFs in S3-compatible object storage
// (AWS S3, MinIO, RustFS).
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/oqd/pdfservice/internal/infrastructure/config"
	"github.com/oqd/pdfservice/internal/infrastructure/printing"
	"go.uber.org/zap"
)

const (
	pdfContentType = "application/pdf"
	// DeleteObjects accepts at most 1000 keys per call
	deleteBatchSize = 1000
)

var _ printing.PDFStorage = (*S3PDFStorage)(nil)

// s3API is the subset of *s3.Client the archive uses.
type s3API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3PDFStorage implements printing.PDFStorage on an S3 bucket. Archive URLs
// are presigned GET URLs.
type S3PDFStorage struct {
	client            s3API
	presigner         presignAPI
	bucket            string
	presignExpiration time.Duration
	now               func() time.Time
	logger            *zap.Logger
}

// Option configures S3PDFStorage
type Option func(*S3PDFStorage)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *S3PDFStorage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPresignExpiration sets how long archive URLs stay valid
func WithPresignExpiration(d time.Duration) Option {
	return func(s *S3PDFStorage) {
		if d > 0 {
			s.presignExpiration = d
		}
	}
}

// NewS3PDFStorage builds the archive from configuration. Without an access
// key the default AWS credential chain is used. An empty endpoint means AWS.
func NewS3PDFStorage(ctx context.Context, cfg *config.StorageConfig, opts ...Option) (*S3PDFStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if (cfg.AccessKey == "") != (cfg.SecretKey == "") {
		return nil, errors.New("storage access key and secret key must be set together")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return newS3PDFStorage(client, s3.NewPresignClient(client), cfg.Bucket, cfg.PresignExpiration, opts...), nil
}

func newS3PDFStorage(client s3API, presigner presignAPI, bucket string, expiration time.Duration, opts ...Option) *S3PDFStorage {
	if expiration <= 0 {
		expiration = 15 * time.Minute
	}
	s := &S3PDFStorage{
		client:            client,
		presigner:         presigner,
		bucket:            bucket,
		presignExpiration: expiration,
		now:               time.Now,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEndpoint(endpoint string) (string, error) {
	if endpoint == "" {
		return "", nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	return endpoint, nil
}

// EnsureBucket creates the bucket if it does not exist.
func (s *S3PDFStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating archive bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Store uploads the PDF under a dated key.
func (s *S3PDFStorage) Store(ctx context.Context, req *printing.StoreRequest) (*printing.StoreResult, error) {
	if err := printing.ValidateStoreRequest(req); err != nil {
		return nil, err
	}

	key := printing.ArchiveKey(req, s.now().UTC())
	metadata := map[string]string{"kind": req.Kind}
	if req.ReferenceID != "" {
		metadata["reference-id"] = req.ReferenceID
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(req.PDFData),
		ContentLength: aws.Int64(int64(len(req.PDFData))),
		ContentType:   aws.String(pdfContentType),
		Metadata:      metadata,
	})
	if err != nil {
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to upload PDF", err)
	}

	s.logger.Info("PDF archived",
		zap.String("kind", req.Kind),
		zap.String("reference_id", req.ReferenceID),
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(req.PDFData)))

	return &printing.StoreResult{
		Key:  key,
		URL:  s.GetURL(key),
		Size: int64(len(req.PDFData)),
	}, nil
}

// Get streams an archived PDF. The caller closes the reader.
func (s *S3PDFStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "PDF not found", err)
		}
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to download PDF", err)
	}
	return out.Body, nil
}

// Delete removes an archived PDF. Deleting a missing key succeeds.
func (s *S3PDFStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to delete PDF", err)
	}
	s.logger.Info("PDF deleted", zap.String("key", key))
	return nil
}

// CleanupOlderThan deletes archived PDFs last modified before now-age.
func (s *S3PDFStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := s.now().Add(-age)
	var expired []types.ObjectIdentifier

	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return 0, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to list archive", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".pdf") || obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
				continue
			}
			expired = append(expired, types.ObjectIdentifier{Key: obj.Key})
		}
	}

	deleted := 0
	for start := 0; start < len(expired); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(expired))
		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: expired[start:end]},
		})
		if err != nil {
			return deleted, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to delete expired PDFs", err)
		}
		deleted += len(out.Deleted)
		for _, e := range out.Errors {
			s.logger.Warn("archive cleanup could not delete object",
				zap.String("key", aws.ToString(e.Key)),
				zap.String("code", aws.ToString(e.Code)))
		}
	}

	s.logger.Info("archive cleanup completed",
		zap.Int("deleted", deleted),
		zap.Duration("age", age))
	return deleted, nil
}

// GetURL returns a presigned download URL, or "" if signing fails.
func (s *S3PDFStorage) GetURL(key string) string {
	req, err := s.presigner.PresignGetObject(context.Background(), &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(key),
		ResponseContentType:        aws.String(pdfContentType),
		ResponseContentDisposition: aws.String(`inline; filename="` + keyFilename(key) + `"`),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		s.logger.Warn("failed to presign archive URL", zap.String("key", key), zap.Error(err))
		return ""
	}
	return req.URL
}

// Bucket returns the bucket name
func (s *S3PDFStorage) Bucket() string {
	return s.bucket
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return printing.NewRenderError(printing.ErrCodeStorageFailed, "invalid path", nil)
	}
	return nil
}

// keyFilename strips the dated prefix and uuid from an archive key.
func keyFilename(key string) string {
	name := key[strings.LastIndex(key, "/")+1:]
	// uuid is 36 chars followed by '-'
	if len(name) > 37 && name[36] == '-' {
		return name[37:]
	}
	return name
}
