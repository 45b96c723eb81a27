package share

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/comparehub/internal/netx"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Config selects the bucket and credentials. Empty AccessKey means the
// default AWS credential chain. Endpoint points at LocalStack or MinIO.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
	// LinkExpiry is how long the returned GET link stays valid.
	LinkExpiry time.Duration
}

// S3Store uploads through a presigned PUT and returns a presigned GET link.
type S3Store struct {
	cfg  S3Config
	http *http.Client
	now  func() time.Time
}

func NewS3Store(cfg S3Config, hc *http.Client) *S3Store {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.LinkExpiry <= 0 {
		cfg.LinkExpiry = 15 * time.Minute
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "comparisons"
	}
	return &S3Store{cfg: cfg, http: hc, now: time.Now}
}

func (s *S3Store) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(s.cfg.Region)}
	if s.cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.cfg.AccessKey, s.cfg.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return s3.NewPresignClient(client), nil
}

// Key builds the object key for name: prefix/yyyy/mm/dd/uuid-name.
func (s *S3Store) Key(name string) string {
	d := s.now().UTC()
	return fmt.Sprintf("%s/%d/%02d/%02d/%s-%s", s.cfg.Prefix, d.Year(), d.Month(), d.Day(), uuid.NewString(), name)
}

func (s *S3Store) Put(ctx context.Context, name string, data []byte) (string, error) {
	if s.cfg.Bucket == "" {
		return "", fmt.Errorf("s3 bucket is not configured")
	}

	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("aws config: %w", err)
	}

	bucket := s.cfg.Bucket
	key := s.Key(name)

	put, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(textContentType),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, s.http, put.URL, textContentType, data); err != nil {
		return "", err
	}

	get, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.cfg.LinkExpiry))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return get.URL, nil
}
