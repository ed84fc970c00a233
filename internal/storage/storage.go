package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/vasthra/saree-works/internal/config"
)

// ErrStorageDisabled 表示未配置对象存储但调用方尝试保存文件
var ErrStorageDisabled = errors.New("object storage is not configured")

// ObjectStore 定义附件对象存储接口
type ObjectStore interface {
	// Save 保存对象并返回存储端的对象路径
	Save(ctx context.Context, category, fileName string, reader io.Reader, size int64, contentType string) (string, error)
}

// MinioStore 基于 MinIO 实现 ObjectStore。
// client 为 nil 表示存储未启用，Save 返回 ErrStorageDisabled。
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewMinioStore 创建对象存储实例。
// cfg.Enabled 为 false 时返回空实现，服务仍可启动，仅附件上传不可用。
func NewMinioStore(cfg config.StorageConfig, logger *zap.Logger) (*MinioStore, error) {
	if !cfg.Enabled {
		logger.Info("object storage disabled, attachments unavailable")
		return &MinioStore{logger: logger}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("created storage bucket", zap.String("bucket", cfg.Bucket))
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// Save 将文件写入对象存储。
// 对象名按日期分区：<category>/yyyy/mm/dd/<uuid>-<fileName>
func (s *MinioStore) Save(ctx context.Context, category, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	if s.client == nil {
		return "", ErrStorageDisabled
	}

	now := time.Now()
	objectName := fmt.Sprintf("%s/%04d/%02d/%02d/%s-%s",
		category, now.Year(), now.Month(), now.Day(), uuid.New().String(), fileName)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}

	s.logger.Debug("object stored",
		zap.String("bucket", s.bucket),
		zap.String("object", objectName),
		zap.Int64("size", size))
	return objectName, nil
}
