package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/MKhiriev/go-clip-sync/internal/auth"
	"github.com/MKhiriev/go-clip-sync/models"
)

// S3StoreConfig configures the S3 backend. Object credentials come from the
// standard AWS credential chain; the injected credential manager only backs
// the session/identity surface of [RemoteStore].
type S3StoreConfig struct {
	Bucket string
	Region string
	// Prefix is the app-private key prefix all objects live under.
	Prefix string
}

type s3RemoteStore struct {
	client s3API
	bucket string
	prefix string
	creds  auth.CredentialManager
}

// s3API is the narrow slice of the S3 client this adapter uses. Declared
// locally so tests can substitute a fake without a network.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewS3RemoteStore constructs a [RemoteStore] over an S3 bucket. The file id
// is the full object key, which makes FindFile/UpsertFile-by-id trivial and
// keeps the adapter stateless.
func NewS3RemoteStore(ctx context.Context, cfg S3StoreConfig, creds auth.CredentialManager) (RemoteStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &s3RemoteStore{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		creds:  creds,
	}, nil
}

func (s *s3RemoteStore) UpsertFile(ctx context.Context, name string, content []byte, existingID string) (models.FileRef, error) {
	key := existingID
	if key == "" {
		key = s.key(name)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awsv2.String(s.bucket),
		Key:         awsv2.String(key),
		Body:        bytes.NewReader(content),
		ContentType: awsv2.String("application/json"),
	})
	if err != nil {
		return models.FileRef{}, fmt.Errorf("put object %s: %w", key, err)
	}

	return models.FileRef{ID: key, Name: name, Size: int64(len(content))}, nil
}

func (s *s3RemoteStore) ReadFile(ctx context.Context, id string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(id),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", id, err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body %s: %w", id, err)
	}
	return content, nil
}

func (s *s3RemoteStore) FindFile(ctx context.Context, name string) (*models.FileRef, error) {
	key := s.key(name)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("head object %s: %w", key, err)
	}

	ref := models.FileRef{ID: key, Name: name}
	if head.ContentLength != nil {
		ref.Size = *head.ContentLength
	}
	if head.LastModified != nil {
		ref.ModifiedAt = *head.LastModified
	}
	return &ref, nil
}

func (s *s3RemoteStore) ListFiles(ctx context.Context) ([]models.FileRef, error) {
	var refs []models.FileRef
	var continuation *string

	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            awsv2.String(s.bucket),
			Prefix:            awsv2.String(s.prefix + "/"),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}

		for _, obj := range out.Contents {
			key := awsv2.ToString(obj.Key)
			ref := models.FileRef{ID: key, Name: strings.TrimPrefix(key, s.prefix+"/")}
			if obj.Size != nil {
				ref.Size = *obj.Size
			}
			if obj.LastModified != nil {
				ref.ModifiedAt = *obj.LastModified
			}
			refs = append(refs, ref)
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			return refs, nil
		}
		continuation = out.NextContinuationToken
	}
}

func (s *s3RemoteStore) DeleteFile(ctx context.Context, id string) error {
	// S3 DeleteObject succeeds on missing keys, which matches the adapter's
	// idempotency contract directly.
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(id),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", id, err)
	}
	return nil
}

func (s *s3RemoteStore) IsAuthenticated() bool {
	return s.creds.IsAuthenticated()
}

func (s *s3RemoteStore) UserEmail() string {
	return s.creds.UserEmail()
}

func (s *s3RemoteStore) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// isNotFound detects missing-object responses across the SDK's error shapes:
// GetObject raises *types.NoSuchKey, HeadObject a generic *types.NotFound.
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	return errors.As(err, &notFound)
}
