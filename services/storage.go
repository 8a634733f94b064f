package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// BlobStore abstracts the file backend so handlers and tests stay
// independent of OSS.
type BlobStore interface {
	Upload(ctx context.Context, fh *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, publicURL string) error
}

type OSSStorage struct {
	client   *oss.Client
	bucket   *oss.Bucket
	bucketNm string
	endpoint string
	prefix   string
}

// NewOSSStorageFromEnv reads OSS_ENDPOINT, OSS_ACCESS_KEY, OSS_SECRET_KEY
// and OSS_BUCKET.
func NewOSSStorageFromEnv() (*OSSStorage, error) {
	endpoint := os.Getenv("OSS_ENDPOINT")
	ak := os.Getenv("OSS_ACCESS_KEY")
	sk := os.Getenv("OSS_SECRET_KEY")
	bucketName := os.Getenv("OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing required OSS environment variables")
	}

	client, err := oss.New(endpoint, ak, sk)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("oss bucket: %w", err)
	}

	return &OSSStorage{
		client:   client,
		bucket:   bucket,
		bucketNm: bucketName,
		endpoint: strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://"),
		prefix:   "uploads",
	}, nil
}

func (s *OSSStorage) Upload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	key := s.buildObjectKey(fh.Filename)
	opts := []oss.Option{oss.WithContext(ctx)}
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		opts = append(opts, oss.ContentType(ct))
	}
	if err := s.bucket.PutObject(key, src, opts...); err != nil {
		return "", fmt.Errorf("oss put: %w", err)
	}
	return s.PublicURL(key), nil
}

func (s *OSSStorage) Delete(ctx context.Context, publicURL string) error {
	key, err := s.extractKey(publicURL)
	if err != nil {
		return err
	}
	return s.bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSStorage) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", s.bucketNm, s.endpoint, key)
}

func (s *OSSStorage) extractKey(publicURL string) (string, error) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("parse blob url: %w", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("blob url has no object key: %s", publicURL)
	}
	return key, nil
}

// buildObjectKey keeps the original extension but replaces the name with a
// uuid so colliding uploads never overwrite each other.
func (s *OSSStorage) buildObjectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s%s", s.prefix, uuid.NewString(), ext)
}

// MemoryStorage holds blobs in memory. Used when OSS is not configured and
// in tests.
type MemoryStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

func (s *MemoryStorage) Upload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buf, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("memory://uploads/%s%s", uuid.NewString(), strings.ToLower(path.Ext(fh.Filename)))
	s.mu.Lock()
	s.blobs[url] = buf
	s.mu.Unlock()
	return url, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, publicURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[publicURL]; !ok {
		return fmt.Errorf("blob not found: %s", publicURL)
	}
	delete(s.blobs, publicURL)
	return nil
}

// Len reports how many blobs are currently stored.
func (s *MemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
