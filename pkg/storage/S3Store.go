package storage

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/createbucketoptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const objectExtension = ".json"

type S3StoreConfig struct {
	Bucket    string
	Folder    string
	Namespace string
	S3Client  s3.S3Client
}

/*
S3Store keeps each value as its own JSON object under
<folder>/<namespace>/<escaped key>.json.
*/
type S3Store struct {
	bucket   string
	prefix   string
	s3Client s3.S3Client
}

func NewS3Store(config S3StoreConfig) S3Store {
	return S3Store{
		bucket:   config.Bucket,
		prefix:   path.Join(config.Folder, config.Namespace),
		s3Client: config.S3Client,
	}
}

/*
EnsureBucket creates the bucket when it does not exist yet.
*/
func (s S3Store) EnsureBucket(region string) error {
	var (
		err    error
		exists bool
	)

	if exists, err = s.s3Client.BucketExists(s.bucket); err != nil {
		return fmt.Errorf("error ensuring bucket '%s' exists: %w", s.bucket, err)
	}

	if exists {
		return nil
	}

	slog.Info("creating bucket", "bucketName", s.bucket)

	err = s.s3Client.CreateBucket(
		s.bucket,
		createbucketoptions.WithRegion(region),
	)

	if err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", s.bucket, err)
	}

	return nil
}

func (s S3Store) Get(key string) (string, error) {
	var (
		err    error
		stat   *s3.ObjectMetadata
		object s3.GetObjectResponse
		b      []byte
	)

	objectKey := s.objectKey(key)

	if stat, err = s.s3Client.StatObject(s.bucket, objectKey); err != nil {
		return "", fmt.Errorf("error retrieving metadata for '%s': %w", objectKey, err)
	}

	if stat == nil {
		return "", ErrNotFound
	}

	if object, err = s.s3Client.Get(s.bucket, objectKey); err != nil {
		return "", fmt.Errorf("error retrieving object '%s': %w", objectKey, err)
	}

	defer object.Body.Close()

	if b, err = io.ReadAll(object.Body); err != nil {
		return "", fmt.Errorf("error reading object '%s': %w", objectKey, err)
	}

	return string(b), nil
}

func (s S3Store) Set(key, value string) error {
	objectKey := s.objectKey(key)

	if _, err := s.s3Client.Put(s.bucket, objectKey, strings.NewReader(value)); err != nil {
		return fmt.Errorf("error writing object '%s': %w", objectKey, err)
	}

	return nil
}

/*
Replace overwrites an existing object. S3 has no way to keep the original
LastModified, so the key moves to the end of Keys like a Set.
*/
func (s S3Store) Replace(key, value string) error {
	var (
		err  error
		stat *s3.ObjectMetadata
	)

	objectKey := s.objectKey(key)

	if stat, err = s.s3Client.StatObject(s.bucket, objectKey); err != nil {
		return fmt.Errorf("error retrieving metadata for '%s': %w", objectKey, err)
	}

	if stat == nil {
		return ErrNotFound
	}

	return s.Set(key, value)
}

func (s S3Store) Delete(key string) error {
	objectKey := s.objectKey(key)

	if _, err := s.s3Client.Delete(s.bucket, []string{objectKey}); err != nil {
		return fmt.Errorf("error deleting object '%s': %w", objectKey, err)
	}

	return nil
}

func (s S3Store) Keys() ([]string, error) {
	var (
		err      error
		response s3.ListResponse
	)

	response, err = s.s3Client.List(
		s.bucket,
		s.prefix+"/",
		listoptions.WithGetAll(),
		listoptions.WithFilter(func(obj types.Object) bool {
			return strings.HasSuffix(aws.ToString(obj.Key), objectExtension)
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("error listing objects under '%s': %w", s.prefix, err)
	}

	objects := response.Objects

	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].LastModified.Before(objects[j].LastModified)
	})

	result := make([]string, 0, len(objects))

	for _, obj := range objects {
		escaped := strings.TrimSuffix(path.Base(obj.Key), objectExtension)

		key, err := url.PathUnescape(escaped)
		if err != nil {
			slog.Warn("skipping object with malformed key", "key", obj.Key, "error", err)
			continue
		}

		result = append(result, key)
	}

	return result, nil
}

func (s S3Store) objectKey(key string) string {
	return s.prefix + "/" + url.PathEscape(key) + objectExtension
}
