package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/openscrapers/docketproc/internal/apperr"
	"github.com/openscrapers/docketproc/internal/config"
	"github.com/openscrapers/docketproc/internal/metrics"
)

// Store is the S3-compatible blob store adapter (spec.md §4.1). It exposes
// four operations over canonically-keyed objects; callers never deal with
// bucket/key strings directly — they pass an Address and Store derives the
// key.
type Store struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// New builds a Store from resolved blob configuration. The S3 client talks
// to whichever S3-compatible endpoint cfg.Endpoint names (DigitalOcean
// Spaces or Supabase Storage); both require path-style addressing rather
// than the virtual-hosted style AWS itself defaults to.
func New(ctx context.Context, cfg config.BlobConfig, logger *zap.Logger) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("blobstore: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = &cfg.Endpoint
		}
		o.UsePathStyle = true
	})

	return &Store{client: client, bucket: cfg.Bucket, logger: logger.Named("blobstore")}, nil
}

// Download fetches and JSON-decodes the object at address into out.
func Download[T any](ctx context.Context, s *Store, address Address, out *T) error {
	data, err := s.downloadBytes(ctx, address.ObjectKey())
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperr.Wrap(apperr.Parse, fmt.Errorf("blobstore: decode %s: %w", address.ObjectKey(), err))
	}
	return nil
}

// Upload JSON-encodes value and writes it to address.
func Upload[T any](ctx context.Context, s *Store, address Address, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperr.Wrap(apperr.Parse, fmt.Errorf("blobstore: encode %s: %w", address.ObjectKey(), err))
	}
	return s.uploadBytes(ctx, address.ObjectKey(), data)
}

// DownloadRawBytes fetches the raw bytes at address without JSON decoding —
// used for raw/file/<hash> attachment payloads.
func (s *Store) DownloadRawBytes(ctx context.Context, address Address) ([]byte, error) {
	return s.downloadBytes(ctx, address.ObjectKey())
}

// UploadRawBytes writes data verbatim to address.
func (s *Store) UploadRawBytes(ctx context.Context, address Address, data []byte) error {
	return s.uploadBytes(ctx, address.ObjectKey(), data)
}

func (s *Store) downloadBytes(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		if isNotFound(err) {
			metrics.BlobStoreOperations.WithLabelValues("get", "not_found").Inc()
			return nil, apperr.Wrap(apperr.NotFound, fmt.Errorf("blobstore: %s: %w", key, err))
		}
		metrics.BlobStoreOperations.WithLabelValues("get", "error").Inc()
		return nil, apperr.Wrap(apperr.Transport, fmt.Errorf("blobstore: get %s: %w", key, err))
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		metrics.BlobStoreOperations.WithLabelValues("get", "error").Inc()
		return nil, apperr.Wrap(apperr.Transport, fmt.Errorf("blobstore: read %s: %w", key, err))
	}
	metrics.BlobStoreOperations.WithLabelValues("get", "success").Inc()
	return data, nil
}

func (s *Store) uploadBytes(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		metrics.BlobStoreOperations.WithLabelValues("put", "error").Inc()
		return apperr.Wrap(apperr.Transport, fmt.Errorf("blobstore: put %s: %w", key, err))
	}
	metrics.BlobStoreOperations.WithLabelValues("put", "success").Inc()
	return nil
}

// List returns the key stems (object keys with prefix stripped) of every
// object under directoryPrefix, exhausting all pages (spec.md §4.1).
func (s *Store) List(ctx context.Context, directoryPrefix string) ([]string, error) {
	var stems []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: &directoryPrefix,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperr.Wrap(apperr.Transport, fmt.Errorf("blobstore: list %s: %w", directoryPrefix, err))
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			stems = append(stems, strings.TrimPrefix(*obj.Key, directoryPrefix))
		}
	}

	return stems, nil
}

// deleteBatchSize is the S3 DeleteObjects request limit.
const deleteBatchSize = 1000

// DeleteRecursive removes every object under directoryPrefix.
func (s *Store) DeleteRecursive(ctx context.Context, directoryPrefix string) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: &directoryPrefix,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			metrics.BlobStoreOperations.WithLabelValues("delete", "error").Inc()
			return apperr.Wrap(apperr.Transport, fmt.Errorf("blobstore: list for delete %s: %w", directoryPrefix, err))
		}
		if len(page.Contents) == 0 {
			continue
		}

		for _, batch := range chunkObjects(page.Contents, deleteBatchSize) {
			ids := make([]types.ObjectIdentifier, len(batch))
			for i, obj := range batch {
				ids[i] = types.ObjectIdentifier{Key: obj.Key}
			}
			_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: &s.bucket,
				Delete: &types.Delete{Objects: ids},
			})
			if err != nil {
				metrics.BlobStoreOperations.WithLabelValues("delete", "error").Inc()
				return apperr.Wrap(apperr.Transport, fmt.Errorf("blobstore: delete batch under %s: %w", directoryPrefix, err))
			}
		}
	}

	metrics.BlobStoreOperations.WithLabelValues("delete", "success").Inc()
	s.logger.Info("deleted blob prefix", zap.String("prefix", directoryPrefix))
	return nil
}

func chunkObjects(objs []types.Object, size int) [][]types.Object {
	var batches [][]types.Object
	for i := 0; i < len(objs); i += size {
		end := i + size
		if end > len(objs) {
			end = len(objs)
		}
		batches = append(batches, objs[i:end])
	}
	return batches
}

func isNotFound(err error) bool {
	var nf *types.NoSuchKey
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
