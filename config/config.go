package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppEnvDev turns on trace logging
const AppEnvDev = "dev"

type AppConfig struct {
	// Port web server port
	Port string

	// AppEnv represent the environment in which the server runs
	AppEnv string

	// AppRoot is the directory holding uploads/ and static/
	AppRoot string
	// MaxUploadMB caps the size of one request body
	MaxUploadMB int64

	// LogFilename when set, logs are also written to this rotating file
	LogFilename string
	// LogConsoleLevel minimum level for the logger (trace, debug, info, ...)
	LogConsoleLevel string

	// FolderIgnore doublestar patterns skipped during folder uploads
	FolderIgnore []string

	// StagingPurgeCron cron expression for purging uploads/, empty disables it
	StagingPurgeCron string
	// StagingTTL age after which a staged file is purged
	StagingTTL time.Duration

	// StorageProvider used to mirror committed images (local, s3, minio)
	StorageProvider string
	// LocalMirrorDir destination directory for the local mirror
	LocalMirrorDir string
	// LocalStorageURL base URL for files mirrored locally
	LocalStorageURL string

	// AWSRegion region for AWS
	AWSRegion string
	// AWSS3Bucket S3 bucket
	AWSS3Bucket string
	// AWSCDNURL CDN URL
	AWSCDNURL string

	// MinioEndpoint host:port of the MinIO server
	MinioEndpoint string
	// MinioAccessKey MinIO access key
	MinioAccessKey string
	// MinioSecretKey MinIO secret key
	MinioSecretKey string
	// MinioBucket bucket receiving mirrored images
	MinioBucket string
	// MinioUseSSL if "true" uses https to reach MinIO
	MinioUseSSL bool
}

// LoadConfig reads the optional .env file then the environment.
func LoadConfig() AppConfig {
	_ = godotenv.Load()

	return AppConfig{
		Port:             getEnv("PORT", "5000"),
		AppEnv:           os.Getenv("APP_ENV"),
		AppRoot:          getEnv("APP_ROOT", "."),
		MaxUploadMB:      getInt("MAX_UPLOAD_MB", 32),
		LogFilename:      os.Getenv("LOG_FILENAME"),
		LogConsoleLevel:  os.Getenv("LOG_CONSOLE_LEVEL"),
		FolderIgnore:     splitList(getEnv("FOLDER_IGNORE", "**/.*,**/Thumbs.db")),
		StagingPurgeCron: os.Getenv("STAGING_PURGE_CRON"),
		StagingTTL:       getDuration("STAGING_TTL", 24*time.Hour),
		StorageProvider:  os.Getenv("STORAGE_PROVIDER"),
		LocalMirrorDir:   getEnv("LOCAL_MIRROR_DIR", os.TempDir()),
		LocalStorageURL:  os.Getenv("LOCAL_STORAGE_URL"),
		AWSRegion:        getEnv("AWS_REGION", "ca-central-1"),
		AWSS3Bucket:      os.Getenv("AWS_S3_BUCKET"),
		AWSCDNURL:        os.Getenv("AWS_CDN_URL"),
		MinioEndpoint:    os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:   os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:   os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:      os.Getenv("MINIO_BUCKET"),
		MinioUseSSL:      os.Getenv("MINIO_USE_SSL") == "true",
	}
}

// MaxUploadBytes returns MaxUploadMB in bytes.
func (c AppConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int64) int64 {
	i, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || i <= 0 {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); len(item) > 0 {
			list = append(list, item)
		}
	}
	return list
}
