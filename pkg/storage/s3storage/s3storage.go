// Package s3storage provides an S3 (or S3 compatible) storage implementation.
package s3storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sgaunet/tilefill/pkg/constants"
)

// defaultRegion is the region where CreateBucket must not carry a location constraint.
const defaultRegion = "us-east-1"

// S3Storage writes generated files as objects below a bucket prefix.
type S3Storage struct {
	s3Client *s3.Client
	endpoint string
	region   string
	bucket   string
	path     string
}

// NewS3Storage creates a new S3Storage. Static credentials are used when
// accessKey and secretKey are set, the default AWS credential chain
// otherwise. A non-empty endpoint selects an S3 compatible server with
// path-style addressing.
func NewS3Storage(ctx context.Context, region, endpoint, bucket, bucketPath, accessKey, secretKey string) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	s := &S3Storage{
		endpoint: endpoint,
		region:   region,
		bucket:   bucket,
		path:     bucketPath,
	}
	s.s3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return s, nil
}

// Location returns the s3:// URL of the target prefix.
func (s *S3Storage) Location() string {
	if s.path == "" {
		return "s3://" + s.bucket
	}
	return "s3://" + s.bucket + "/" + s.path
}

// Prepare checks that the bucket exists and creates it when it does not.
func (s *S3Storage) Prepare(ctx context.Context) error {
	_, err := s.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to access bucket %s: %w", s.bucket, err)
	}
	return s.CreateBucket(ctx)
}

// CreateBucket creates the configured bucket.
func (s *S3Storage) CreateBucket(ctx context.Context) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}
	if s.region != "" && s.region != defaultRegion {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	if _, err := s.s3Client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// SaveFile uploads fileSize bytes of src as object dstFilename below the prefix.
// Seekable sources and sources of at most one part are sent in a single
// request, anything larger as a multipart upload holding one part in memory
// at a time.
func (s *S3Storage) SaveFile(ctx context.Context, src io.Reader, dstFilename string, fileSize int64) error {
	if body, ok := src.(io.ReadSeeker); ok {
		return s.putObject(ctx, body, dstFilename, fileSize)
	}
	if fileSize > constants.S3PartSize {
		return s.multipartUpload(ctx, src, dstFilename, fileSize)
	}
	buf := make([]byte, fileSize)
	if _, err := io.ReadFull(src, buf); err != nil {
		return fmt.Errorf("failed to read content of %s: %w", dstFilename, err)
	}
	return s.putObject(ctx, bytes.NewReader(buf), dstFilename, fileSize)
}

func (s *S3Storage) putObject(ctx context.Context, body io.ReadSeeker, dstFilename string, fileSize int64) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(dstFilename)),
		Body:          body,
		ContentLength: aws.Int64(fileSize),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", dstFilename, err)
	}
	return nil
}

// multipartUpload streams src in S3PartSize parts. The upload is aborted
// when a part cannot be read or sent.
func (s *S3Storage) multipartUpload(ctx context.Context, src io.Reader, dstFilename string, fileSize int64) error {
	key := aws.String(s.key(dstFilename))
	created, err := s.s3Client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket: aws.String(s.bucket),
		Key:    key,
	})
	if err != nil {
		return fmt.Errorf("failed to start upload of %s: %w", dstFilename, err)
	}

	buf := make([]byte, constants.S3PartSize)
	var parts []types.CompletedPart
	var sent int64
	for partNumber := int32(1); sent < fileSize; partNumber++ {
		n, err := io.ReadFull(src, buf[:min(int64(len(buf)), fileSize-sent)])
		if err != nil {
			s.abort(ctx, key, created.UploadId)
			return fmt.Errorf("failed to read content of %s: %w", dstFilename, err)
		}
		out, err := s.s3Client.UploadPart(ctx, &s3.UploadPartInput{
			Bucket:        aws.String(s.bucket),
			Key:           key,
			UploadId:      created.UploadId,
			PartNumber:    aws.Int32(partNumber),
			Body:          bytes.NewReader(buf[:n]),
			ContentLength: aws.Int64(int64(n)),
		})
		if err != nil {
			s.abort(ctx, key, created.UploadId)
			return fmt.Errorf("failed to upload part %d of %s: %w", partNumber, dstFilename, err)
		}
		parts = append(parts, types.CompletedPart{ETag: out.ETag, PartNumber: aws.Int32(partNumber)})
		sent += int64(n)
	}

	_, err = s.s3Client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(s.bucket),
		Key:             key,
		UploadId:        created.UploadId,
		MultipartUpload: &types.CompletedMultipartUpload{Parts: parts},
	})
	if err != nil {
		s.abort(ctx, key, created.UploadId)
		return fmt.Errorf("failed to complete upload of %s: %w", dstFilename, err)
	}
	return nil
}

func (s *S3Storage) abort(ctx context.Context, key, uploadID *string) {
	// the upload must be released even when ctx is cancelled
	_, _ = s.s3Client.AbortMultipartUpload(context.WithoutCancel(ctx), &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(s.bucket),
		Key:      key,
		UploadId: uploadID,
	})
}

// ObjectSize returns the size of an uploaded file.
func (s *S3Storage) ObjectSize(ctx context.Context, dstFilename string) (int64, error) {
	out, err := s.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(dstFilename)),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", dstFilename, err)
	}
	return aws.ToInt64(out.ContentLength), nil
}

func (s *S3Storage) key(name string) string {
	if s.path == "" {
		return name
	}
	return path.Join(s.path, name)
}
