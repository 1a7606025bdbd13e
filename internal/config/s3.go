package config

import (
	"context"
	"path"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/viewlets/internal/errors"
)

// S3Scheme prefixes layout locations stored in S3.
const S3Scheme = "s3://"

// ObjectGetter is the part of the S3 API needed to fetch a layout.
// *s3.Client implements it.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client returns an anonymous S3 client for region, suitable for
// public layout buckets.
func NewS3Client(region string) *s3.Client {
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.AnonymousCredentials{},
	})
}

// ParseS3URL splits "s3://bucket/key" into bucket and key.
func ParseS3URL(raw string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(raw, S3Scheme)
	if !found {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// LoadS3 reads the layout stored at bucket/key. The format follows the
// key's extension.
func LoadS3(ctx context.Context, client ObjectGetter, bucket, key string) (*Layout, error) {
	loc := S3Scheme + bucket + "/" + key

	format := strings.TrimPrefix(path.Ext(key), ".")
	if !slices.Contains(Extensions, format) {
		return nil, errors.New("V004").
			WithSubject(loc).
			WithDetail("unsupported layout format " + format).
			WithSuggestion("Use a .yaml, .yml, .json or .toml key")
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New("V004").WithSubject(loc).Wrap(err)
	}
	defer out.Body.Close()

	l, err := LoadReader(out.Body, format)
	if err != nil {
		return nil, errors.FromError(err, "V004").WithSubject(loc)
	}
	l.configPath = loc
	return l, nil
}
