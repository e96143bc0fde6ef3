// Package storage menyimpan artefak (receipt) ke object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Store = tempat artefak disimpan; key berbentuk "receipts/2025-01/<charge>.html".
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	URL(key string) string
	Name() string
}

type Config struct {
	Backend string // oss | minio | local

	OSS      OSSConfig
	MinIO    MinIOConfig
	LocalDir string
	// base URL publik untuk backend local (mis. http://localhost:3000/files)
	LocalBaseURL string
}

// New memilih backend berdasarkan cfg.Backend (kosong = local).
func New(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "oss":
		return NewOSSStore(cfg.OSS)
	case "minio", "s3":
		s, err := NewMinIOStore(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("minio ensure bucket: %w", err)
		}
		return s, nil
	case "", "local":
		return NewLocalStore(cfg.LocalDir, cfg.LocalBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return key, nil
}
