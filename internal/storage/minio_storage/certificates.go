package minio_storage

import (
	"LearnTrack/internal/app_errors"
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

type CertificateStorage struct {
	storage      *MinioStorage
	bucket       string
	presignedTTL time.Duration
}

func NewCertificateStorage(storage *MinioStorage, bucketName string, presignedTTL time.Duration) (*CertificateStorage, error) {
	if err := storage.ensureBucket(context.Background(), bucketName); err != nil {
		return nil, err
	}
	return &CertificateStorage{storage: storage, bucket: bucketName, presignedTTL: presignedTTL}, nil
}

func CertificateKey(userID, courseID uuid.UUID) string {
	return fmt.Sprintf("users/%s/courses/%s/certificate.txt", userID, courseID)
}

func (s *CertificateStorage) Put(ctx context.Context, userID, courseID uuid.UUID, body []byte) (string, error) {
	key := CertificateKey(userID, courseID)
	_, err := s.storage.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(body),
		int64(len(body)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"},
	)
	if err != nil {
		return "", fmt.Errorf("put certificate: %w", err)
	}
	return key, nil
}

// URL presigns a download link; ErrCertificateNotFound if nothing was issued yet.
func (s *CertificateStorage) URL(ctx context.Context, userID, courseID uuid.UUID) (string, error) {
	key := CertificateKey(userID, courseID)

	if _, err := s.storage.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", app_errors.ErrCertificateNotFound
		}
		return "", fmt.Errorf("stat certificate: %w", err)
	}

	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition", `attachment; filename="certificate.txt"`)
	presignedURL, err := s.storage.client.PresignedGetObject(ctx, s.bucket, key, s.presignedTTL, reqParams)
	if err != nil {
		return "", fmt.Errorf("presign certificate: %w", err)
	}
	return presignedURL.String(), nil
}
