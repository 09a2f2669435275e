package sink

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/goccy/go-json"
	"github.com/law-makers/pdp/pkg/models"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// objectPutter is the part of the S3 client the sink uses
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 stores each record as a JSON object
type S3 struct {
	client objectPutter
	bucket string
	prefix string
}

// OpenS3 loads the default AWS configuration for target s3://bucket/prefix
func OpenS3(ctx context.Context, target, region string) (*S3, error) {
	bucket, prefix, err := ParseS3Target(target)
	if err != nil {
		return nil, err
	}

	var optFns []func(*awsconfig.LoadOptions) error
	if region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return newS3(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func newS3(client objectPutter, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

// ParseS3Target splits s3://bucket/prefix
func ParseS3Target(target string) (bucket, prefix string, err error) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("%w: invalid S3 target %q", ErrUnsupportedTarget, target)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

// ObjectKey returns prefix/<unique_id or sanitized url>/<extraction_date>.json
func ObjectKey(prefix string, p *models.Product) string {
	id := p.UniqueID
	if id == "" {
		id = strings.TrimPrefix(strings.TrimPrefix(p.PDPURL, "https://"), "http://")
	}
	id = strings.Trim(unsafeKeyChars.ReplaceAllString(id, "_"), "_")
	if id == "" {
		id = "unknown"
	}

	date := p.ExtractionDate
	if date == "" {
		date = "undated"
	}
	return path.Join(prefix, id, date+".json")
}

// Emit uploads p
func (s *S3) Emit(ctx context.Context, p *models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	key := ObjectKey(s.prefix, p)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}
	return nil
}

// Close is a no-op
func (s *S3) Close(ctx context.Context) error {
	return nil
}
