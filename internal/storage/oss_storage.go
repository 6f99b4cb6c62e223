package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"userdesk/internal/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type ossStorage struct {
	bucket *oss.Bucket
	prefix string
}

func NewOSSStorage(cfg config.Config) (Storage, error) {
	endpoint := strings.TrimSpace(cfg.StorageOSSEndpoint)
	if endpoint == "" {
		return nil, errors.New("storage: missing OSS endpoint")
	}
	bucketName := strings.TrimSpace(cfg.StorageOSSBucket)
	if bucketName == "" {
		return nil, errors.New("storage: missing OSS bucket")
	}
	accessKey := strings.TrimSpace(cfg.StorageOSSAccessKeyID)
	secretKey := strings.TrimSpace(cfg.StorageOSSAccessKeySecret)
	if accessKey == "" || secretKey == "" {
		return nil, errors.New("storage: missing OSS credentials")
	}

	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("storage: create OSS client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("storage: open OSS bucket: %w", err)
	}

	return &ossStorage{
		bucket: bucket,
		prefix: trimPrefix(cfg.StorageOSSPrefix),
	}, nil
}

func (s *ossStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	objKey, err := objectKey(s.prefix, key)
	if err != nil {
		return nil, err
	}

	body, err := s.bucket.GetObject(objKey, oss.WithContext(ctx))
	if err != nil {
		if isOSSNotFound(err) {
			return nil, notExist(key)
		}
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

func (s *ossStorage) Save(ctx context.Context, key string, data []byte) error {
	if len(data) == 0 {
		return errors.New("empty payload")
	}
	if err := checkContext(ctx); err != nil {
		return err
	}
	objKey, err := objectKey(s.prefix, key)
	if err != nil {
		return err
	}

	options := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(detectContentType(objKey)),
	}
	if err := s.bucket.PutObject(objKey, bytes.NewReader(data), options...); err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func isOSSNotFound(err error) bool {
	var svcErr oss.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.StatusCode == http.StatusNotFound || svcErr.Code == "NoSuchKey"
	}
	return false
}

var _ Storage = (*ossStorage)(nil)
