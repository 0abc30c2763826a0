package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type (
	APP struct {
		Name      string
		Host      string
		Port      string
		Env       string
		JWTSecret string
		JWTTTL    time.Duration
		// PublicBaseURL prefixes the share links rendered into QR codes.
		PublicBaseURL string
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
	}
	S3 struct {
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		BucketUploads   string
		Endpoint        string
		UsePathStyle    bool
		UploadURLTTL    time.Duration
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}
	// Links are the lifetimes of minted access URLs per kind.
	Links struct {
		PreviewTTL        time.Duration
		DownloadTTL       time.Duration
		DownloadNowTTL    time.Duration
		PublicPreviewTTL  time.Duration
		PublicDownloadTTL time.Duration
	}
	HTTP struct {
		CORSOrigins []string
		// TrustedProxies may set X-Forwarded-For. Empty means none, and the
		// client IP is the peer address.
		TrustedProxies []string
		// PublicRPS and PublicBurst throttle the anonymous share route per client IP.
		PublicRPS     float64
		PublicBurst   int
		MaxUploadSize int64
	}
	Storage struct {
		QuotaBytes int64
	}

	Config struct {
		App     APP
		DB      DB
		S3      S3
		MQ      MQ
		Links   Links
		HTTP    HTTP
		Storage Storage
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil && d > 0 {
		return d
	}
	return def
}

func getInt64(key string, def int64) int64 {
	if n, err := strconv.ParseInt(getEnv(key, ""), 10, 64); err == nil && n > 0 {
		return n
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil && f > 0 {
		return f
	}
	return def
}

func getBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return def
}

func getList(key string) []string {
	var out []string
	for _, s := range strings.Split(getEnv(key, ""), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func Load() Config {
	app := APP{
		Name:          getEnv("SERVICE_NAME", "fileshare-api"),
		Host:          getEnv("SERVICE_HOST", ""),
		Port:          getEnv("SERVICE_PORT", "8080"),
		Env:           getEnv("SERVICE_ENV", ""),
		JWTSecret:     getEnv("SERVICE_JWT_SECRET", ""),
		JWTTTL:        getDuration("SERVICE_JWT_TTL", time.Hour),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", ""),
	}
	s3 := S3{
		Region:          getEnv("S3_REGION", "us-east-1"),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		BucketUploads:   getEnv("S3_BUCKET_UPLOADS", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		UsePathStyle:    getBool("S3_USE_PATH_STYLE", false),
		UploadURLTTL:    getDuration("S3_UPLOAD_URL_TTL", 15*time.Minute),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", ""),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "fileshare.audit"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "fileshare.audit.log"),
	}
	links := Links{
		PreviewTTL:        getDuration("LINK_PREVIEW_TTL", 10*time.Minute),
		DownloadTTL:       getDuration("LINK_DOWNLOAD_TTL", 60*time.Minute),
		DownloadNowTTL:    getDuration("LINK_DOWNLOAD_NOW_TTL", 5*time.Minute),
		PublicPreviewTTL:  getDuration("LINK_PUBLIC_PREVIEW_TTL", 10*time.Minute),
		PublicDownloadTTL: getDuration("LINK_PUBLIC_DOWNLOAD_TTL", 60*time.Minute),
	}
	httpCfg := HTTP{
		CORSOrigins:    getList("HTTP_CORS_ORIGINS"),
		TrustedProxies: getList("HTTP_TRUSTED_PROXIES"),
		PublicRPS:      getFloat("HTTP_PUBLIC_RPS", 2),
		PublicBurst:    int(getInt64("HTTP_PUBLIC_BURST", 10)),
		MaxUploadSize:  getInt64("HTTP_MAX_UPLOAD_SIZE", 50<<20),
	}
	storage := Storage{
		QuotaBytes: getInt64("STORAGE_QUOTA_BYTES", 2<<30),
	}

	return Config{
		App:     app,
		DB:      db,
		S3:      s3,
		MQ:      mq,
		Links:   links,
		HTTP:    httpCfg,
		Storage: storage,
	}
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}

func (c Config) Validate() error {
	if c.App.JWTSecret == "" {
		return fmt.Errorf("SERVICE_JWT_SECRET is required")
	}
	if c.S3.BucketUploads == "" {
		return fmt.Errorf("S3_BUCKET_UPLOADS is required")
	}
	return nil
}
