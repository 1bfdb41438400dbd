package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	// SchemaFile points at a YAML questionnaire; empty uses the built-in.
	SchemaFile string

	// DatabaseURL switches the archive store to Postgres when set.
	DatabaseURL string

	Archive ArchiveConfig
	GitHub  GitHubConfig

	// StaticDir holds the creator UI bundle; empty disables static serving.
	StaticDir string

	// TranslateUpstream is the translation service the gateway proxies for
	// the UI; empty disables the proxy.
	TranslateUpstream string
}

type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	TTL       time.Duration
}

type GitHubConfig struct {
	// APIBase overrides the repository host endpoint (enterprise setups).
	APIBase string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	cfg := &Config{
		Port:              *port,
		Env:               env,
		SchemaFile:        strings.TrimSpace(os.Getenv("SCHEMA_FILE")),
		DatabaseURL:       resolveDatabaseURL(),
		Archive:           loadArchiveConfig(env),
		GitHub:            GitHubConfig{APIBase: strings.TrimSpace(os.Getenv("GITHUB_API_BASE"))},
		StaticDir:         strings.TrimSpace(os.Getenv("STATIC_DIR")),
		TranslateUpstream: strings.TrimSpace(os.Getenv("TRANSLATE_UPSTREAM")),
	}
	return cfg, nil
}

func resolveDatabaseURL() string {
	return strings.TrimSpace(os.Getenv("DATABASE_URL"))
}

func loadArchiveConfig(env string) ArchiveConfig {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return localConfig().Archive
	}
	endpoint := strings.TrimSpace(os.Getenv("ARCHIVE_S3_ENDPOINT"))
	return ArchiveConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_BUCKET")), "adapterforge-archives"),
		UseSSL:    resolveArchiveUseSSL(env),
		TTL:       resolveArchiveTTL(),
	}
}

func resolveArchiveUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARCHIVE_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func resolveArchiveTTL() time.Duration {
	raw := strings.TrimSpace(os.Getenv("ARCHIVE_TTL"))
	if raw == "" {
		return time.Hour
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
