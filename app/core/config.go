package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}

	return *conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	return c
}

type CoreConfig struct {
	Addr          string              `toml:"addr"`
	Log           Log                 `toml:"log"`
	Postgres      PGConfig            `toml:"postgres"`
	Redis         RedisConfig         `toml:"redis"`
	Gateway       GatewayConfig       `toml:"gateway"`
	ObjectStorage ObjectStorageDriver `toml:"object_storage"`
	Security      Security            `toml:"security"`
	Upload        UploadConfig        `toml:"upload"`
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("ASKDB_API_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
	c.Gateway.FromENV()
	c.Security.FromENV()
}

// GatewayConfig points at the reasoning service that generates and
// executes SQL.
type GatewayConfig struct {
	Endpoint   string `toml:"endpoint"`
	Timeout    int    `toml:"timeout"` // seconds
	MaxRetries int    `toml:"max_retries"`
}

func (g *GatewayConfig) FromENV() {
	g.Endpoint = os.Getenv("ASKDB_GATEWAY_ENDPOINT")
	if retries := os.Getenv("ASKDB_GATEWAY_MAX_RETRIES"); retries != "" {
		if n, err := strconv.Atoi(retries); err == nil {
			g.MaxRetries = n
		}
	}
}

func (g GatewayConfig) GetTimeout() time.Duration {
	if g.Timeout <= 0 {
		return time.Second * 120
	}
	return time.Duration(g.Timeout) * time.Second
}

type ObjectStorageDriver struct {
	StaticDomain string    `toml:"static_domain"`
	Driver       string    `toml:"driver"`
	LocalPath    string    `toml:"local_path"`
	S3           *S3Config `toml:"s3"`
}

type S3Config struct {
	Bucket       string `toml:"bucket"`
	Region       string `toml:"region"`
	Endpoint     string `toml:"endpoint"`
	AccessKey    string `toml:"access_key"`
	SecretKey    string `toml:"secret_key"`
	UsePathStyle bool   `toml:"use_path_style"`
}

type Security struct {
	TokenSecret     string `toml:"token_secret"`
	TokenExpireHour int    `toml:"token_expire_hour"`
}

func (s *Security) FromENV() {
	s.TokenSecret = os.Getenv("ASKDB_TOKEN_SECRET")
}

func (s Security) TokenTTL() time.Duration {
	if s.TokenExpireHour <= 0 {
		return time.Hour * 24 * 7
	}
	return time.Duration(s.TokenExpireHour) * time.Hour
}

// UploadConfig bounds CSV uploads.
type UploadConfig struct {
	MaxSizeMB int64 `toml:"max_size_mb"`
}

func (u UploadConfig) MaxSizeBytes() int64 {
	if u.MaxSizeMB <= 0 {
		return 5 << 20
	}
	return u.MaxSizeMB << 20
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("ASKDB_API_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

func (r *RedisConfig) FromENV() {
	r.Addr = os.Getenv("ASKDB_REDIS_ADDR")
	r.Password = os.Getenv("ASKDB_REDIS_PASSWORD")
	if dbStr := os.Getenv("ASKDB_REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("ASKDB_API_LOG_LEVEL")
	l.Path = os.Getenv("ASKDB_API_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
