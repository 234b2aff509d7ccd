package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// MinIOArchive хранит исходные детальные ответы API в бакете MinIO.
type MinIOArchive struct {
	client     *minio.Client
	bucketName string
	logger     zerolog.Logger
}

// NewMinIOArchive создаёт клиент и при необходимости создаёт бакет.
func NewMinIOArchive(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool, logger zerolog.Logger) (*MinIOArchive, error) {
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	if !exists {
		if err := minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
		}
		logger.Info().Str("bucket", bucketName).Msg("bucket created")
	}

	logger.Info().Str("endpoint", endpoint).Str("bucket", bucketName).Msg("MinIO archive initialized")
	return &MinIOArchive{client: minioClient, bucketName: bucketName, logger: logger}, nil
}

// DetailKey возвращает ключ объекта: details/{yyyy-mm-dd}/{code}.json.
func DetailKey(day time.Time, code string) string {
	safeCode := strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(code)
	return fmt.Sprintf("details/%s/%s.json", day.Format(time.DateOnly), safeCode)
}

// StoreDetail сохраняет детальный ответ; повторная запись перезаписывает объект.
func (s *MinIOArchive) StoreDetail(ctx context.Context, day time.Time, code string, raw models.RawTender) error {
	body, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal tender %s: %w", code, err)
	}

	key := DetailKey(day, code)
	_, err = s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Int("size", len(body)).Msg("tender detail archived")
	return nil
}

// HealthCheck проверяет доступность бакета.
func (s *MinIOArchive) HealthCheck(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("MinIO health check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket '%s' does not exist", s.bucketName)
	}
	return nil
}
