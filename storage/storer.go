package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/staticbackendhq/imageeditor/config"
	"github.com/staticbackendhq/imageeditor/model"
)

const (
	StorageProviderLocal = "local"
	StorageProviderS3    = "s3"
	StorageProviderMinio = "minio"
)

// Storer mirrors a committed image somewhere else and returns its URL.
type Storer interface {
	Save(ctx context.Context, data model.UploadFileData) (string, error)
}

// New returns the Storer selected by cfg.StorageProvider, nil when no
// provider is configured.
func New(cfg config.AppConfig) (Storer, error) {
	switch strings.ToLower(cfg.StorageProvider) {
	case "":
		return nil, nil
	case StorageProviderLocal:
		return Local{
			Fs:      afero.NewOsFs(),
			Dir:     cfg.LocalMirrorDir,
			BaseURL: cfg.LocalStorageURL,
		}, nil
	case StorageProviderS3:
		if len(cfg.AWSS3Bucket) == 0 {
			return nil, fmt.Errorf("storage provider %s requires AWS_S3_BUCKET", cfg.StorageProvider)
		}
		return S3{Region: cfg.AWSRegion, Bucket: cfg.AWSS3Bucket, CDNURL: cfg.AWSCDNURL}, nil
	case StorageProviderMinio:
		return NewMinio(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.StorageProvider)
	}
}
