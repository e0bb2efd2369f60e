package viewresolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/bmatcuk/doublestar/v4"
)

// S3Client is the subset of the S3 API used by S3Store.
type S3Client interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config describes where templates live in S3 or an S3-compatible service.
type S3Config struct {
	Bucket         string
	Region         string
	AccessKeyID    string
	SecretKey      string
	Endpoint       string   // Optional: for S3-compatible services
	ForcePathStyle bool     // For S3-compatible services like MinIO
	Roots          []string // Key prefixes searched in order, e.g. "views"
	Pattern        string   // Defaults to DefaultPattern
}

// S3Option configures S3Store construction.
type S3Option func(*s3Options)

type s3Options struct {
	client        S3Client
	configOptions []func(*config.LoadOptions) error
	clientOptions []func(*s3.Options)
}

// WithS3Client sets a pre-configured client. Useful for testing with mocks.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) { o.client = client }
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) S3Option {
	return func(o *s3Options) { o.configOptions = append(o.configOptions, option) }
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(option func(*s3.Options)) S3Option {
	return func(o *s3Options) { o.clientOptions = append(o.clientOptions, option) }
}

// S3Store searches templates stored as objects in a bucket. Object keys are
// listed under every root and matched against the expanded query, so the
// result follows query expansion order.
// It is safe for concurrent use.
type S3Store struct {
	client  S3Client
	bucket  string
	roots   []string
	pattern string
}

// NewS3Store creates an S3-backed template store.
func NewS3Store(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", ErrInvalidSearchPath)
	}

	roots := make([]string, 0, len(cfg.Roots))
	for _, r := range cfg.Roots {
		r = strings.Trim(strings.TrimSpace(r), "/")
		if r == "" {
			continue
		}
		if slices.Contains(strings.Split(r, "/"), "..") {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSearchPath, r)
		}
		roots = append(roots, r)
	}
	roots = compactUniq(roots)
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: no key prefixes", ErrInvalidSearchPath)
	}

	options := &s3Options{}
	for _, opt := range opts {
		opt(options)
	}

	client := options.client
	if client == nil {
		if cfg.Region == "" {
			return nil, fmt.Errorf("%w: region is required", ErrInvalidSearchPath)
		}

		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}
		awsOptions = append(awsOptions, options.configOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
			for _, opt := range options.clientOptions {
				opt(o)
			}
		})
	}

	pattern := cfg.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		roots:   roots,
		pattern: pattern,
	}, nil
}

// Roots returns the key prefixes in lookup order.
func (s *S3Store) Roots() []string { return slices.Clone(s.roots) }

// Search lists candidate keys and returns those matching the query.
func (s *S3Store) Search(ctx context.Context, name, prefix string, partial bool, details Details) ([]Artifact, error) {
	keys, err := s.listKeys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	query := BuildQuery(s.pattern, s.roots, name, prefix, partial, details)

	var artifacts []Artifact
	seen := make(map[string]struct{})
	for _, pattern := range ExpandBraces(query) {
		for _, key := range keys {
			if _, ok := seen[key]; ok {
				continue
			}
			matched, err := doublestar.Match(pattern, key)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrSearchFailed, pattern, err)
			}
			if !matched {
				continue
			}
			seen[key] = struct{}{}
			artifacts = append(artifacts, newArtifact(key, path.Base(key), name, prefix, partial, details))
		}
	}
	return artifacts, nil
}

// listKeys lists every object key under root/prefix for all roots.
func (s *S3Store) listKeys(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.Trim(prefix, "/")

	var keys []string
	for _, root := range s.roots {
		listPrefix := root + "/"
		if prefix != "" {
			listPrefix += prefix + "/"
		}

		input := &s3.ListObjectsV2Input{
			Bucket: aws.String(s.bucket),
			Prefix: aws.String(listPrefix),
		}
		for {
			resp, err := s.client.ListObjectsV2(ctx, input)
			if err != nil {
				return nil, classifyS3Error(err, "list templates")
			}
			for _, obj := range resp.Contents {
				if obj.Key == nil || strings.HasSuffix(*obj.Key, "/") {
					continue
				}
				keys = append(keys, *obj.Key)
			}
			if !aws.ToBool(resp.IsTruncated) || resp.NextContinuationToken == nil {
				break
			}
			input.ContinuationToken = resp.NextContinuationToken
		}
	}
	return keys, nil
}

// Open fetches the object body of an artifact found by Search.
func (s *S3Store) Open(ctx context.Context, a Artifact) (io.ReadCloser, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(a.Identifier),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, classifyS3Error(err, "get template"))
	}
	return resp.Body, nil
}

// classifyS3Error converts S3 errors to package errors.
func classifyS3Error(err error, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s operation: %w", operation, err)
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: %s operation", ErrBucketNotFound, operation)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s operation: %w", ErrTemplateNotFound, operation, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch code := apiErr.ErrorCode(); code {
		case "AccessDenied":
			return fmt.Errorf("%w: %s operation", ErrAccessDenied, operation)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %s operation", ErrBucketNotFound, operation)
		case "SlowDown", "ServiceUnavailable", "RequestTimeout":
			return fmt.Errorf("%w: %s operation (code: %s)", ErrStoreUnavailable, operation, code)
		default:
			return fmt.Errorf("%w: %s operation (code: %s): %w", ErrSearchFailed, operation, code, err)
		}
	}

	return fmt.Errorf("%w: %s operation: %w", ErrSearchFailed, operation, err)
}
