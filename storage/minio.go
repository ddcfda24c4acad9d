package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/staticbackendhq/imageeditor/config"
	"github.com/staticbackendhq/imageeditor/model"
)

// Minio stores images in a MinIO (or any S3 compatible) bucket.
type Minio struct {
	client *minio.Client
	bucket string
}

func NewMinio(cfg config.AppConfig) (*Minio, error) {
	if len(cfg.MinioEndpoint) == 0 || len(cfg.MinioBucket) == 0 {
		return nil, errors.New("storage provider minio requires MINIO_ENDPOINT and MINIO_BUCKET")
	}

	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.MinioEndpoint, "https://"), "http://")
	if i := strings.Index(endpoint, "/"); i != -1 {
		endpoint = endpoint[:i]
	}

	cl, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create minio client: %w", err)
	}

	return &Minio{client: cl, bucket: cfg.MinioBucket}, nil
}

func (m *Minio) Save(ctx context.Context, data model.UploadFileData) (string, error) {
	contentType := data.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	size := data.Size
	if size <= 0 {
		size = -1
	}

	_, err := m.client.PutObject(ctx, m.bucket, data.FileKey, data.File, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put %q: %w", data.FileKey, err)
	}

	url := fmt.Sprintf("%s/%s/%s", m.client.EndpointURL(), m.bucket, data.FileKey)
	return url, nil
}
