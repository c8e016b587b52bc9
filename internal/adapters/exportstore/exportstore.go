// Package exportstore uploads CSV exports to S3 or an S3 compatible bucket
package exportstore

import (
	"bytes"
	"context"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"datalens/internal/core/csvexport"
	perr "datalens/internal/platform/errors"
	"datalens/internal/platform/logger"
)

const defaultRegion = "us-east-1"

// Config configures the bucket
// static credentials are optional, the default AWS chain applies otherwise
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// Enabled reports whether a bucket is configured
func (c Config) Enabled() bool { return strings.TrimSpace(c.Bucket) != "" }

// Object describes an uploaded export
type Object struct {
	Bucket string `json:"bucket" example:"datalens-exports"`
	Key    string `json:"key" example:"exports/2025/03/04/6f1c...-query-results-2025-03-04.csv"`
	Size   int    `json:"size" example:"2048"`
}

// Uploader is the port services depend on
type Uploader interface {
	Upload(ctx context.Context, data []byte) (Object, error)
}

// putter is the slice of the S3 client we use
type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store puts CSV objects under a dated key
type Store struct {
	client putter
	cfg    Config
	log    logger.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

var _ Uploader = (*Store)(nil)

// New loads AWS config and builds the S3 client
func New(ctx context.Context, cfg Config) (*Store, error) {
	if !cfg.Enabled() {
		return nil, perr.InvalidArgf("export bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "load aws config")
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.UsePathStyle
		})
	}
	return newStore(s3.NewFromConfig(awsCfg, s3Opts...), cfg), nil
}

func newStore(client putter, cfg Config) *Store {
	return &Store{
		client: client,
		cfg:    cfg,
		log:    *logger.Named("exportstore"),
		now:    time.Now,
		newID:  uuid.New,
	}
}

// Key builds <prefix>exports/YYYY/MM/DD/<id>-query-results-YYYY-MM-DD.csv
func Key(prefix string, t time.Time, id uuid.UUID) string {
	t = t.UTC()
	name := id.String() + "-" + csvexport.FileName(t)
	return prefix + path.Join("exports", t.Format("2006/01/02"), name)
}

// Upload writes data as a new CSV object
func (s *Store) Upload(ctx context.Context, data []byte) (Object, error) {
	key := Key(s.cfg.Prefix, s.now(), s.newID())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.cfg.Bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentType:        aws.String(csvexport.ContentType),
		ContentDisposition: aws.String(`attachment; filename="` + path.Base(key) + `"`),
	})
	if err != nil {
		return Object{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "upload export to bucket %s", s.cfg.Bucket)
	}
	s.log.Info().Str("bucket", s.cfg.Bucket).Str("key", key).Int("bytes", len(data)).Msg("export uploaded")
	return Object{Bucket: s.cfg.Bucket, Key: key, Size: len(data)}, nil
}
