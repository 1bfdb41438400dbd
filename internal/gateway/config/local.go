package config

import (
	"os"
	"strings"
)

func localConfig() Config {
	return Config{
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Archive: ArchiveConfig{
			Enabled:   strings.TrimSpace(os.Getenv("ARCHIVE_MINIO_ENDPOINT")) != "",
			Endpoint:  firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_MINIO_ENDPOINT")), "minio:9000"),
			Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_REGION")), "us-east-1"),
			AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_ACCESS_KEY")), "adapterforge"),
			SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_SECRET_KEY")), "adapterforge123"),
			Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_BUCKET")), "adapterforge-archives"),
			UseSSL:    false,
			TTL:       resolveArchiveTTL(),
		},
	}
}
