package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Registry RegistryConfig
	AMQP     AMQPConfig
	Dispatch DispatchConfig
	Log      LogConfig
}

type AppConfig struct {
	Name        string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled is false when no host is configured; callers then run without a cache.
func (c RedisConfig) Enabled() bool { return strings.TrimSpace(c.Host) != "" }

// RegistryConfig names where the skill registry is loaded from. Sources are
// tried in order: file, S3 object, skills table, built-in list.
type RegistryConfig struct {
	File        string
	S3Bucket    string
	S3Key       string
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
}

func (c AMQPConfig) Enabled() bool { return strings.TrimSpace(c.URL) != "" }

type DispatchConfig struct {
	Enabled     bool
	Spec        string
	DigestSpec  string
	Workers     int
	LockTTL     time.Duration
	LinkBaseURL string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_port", "8080")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_name", "skill_alert")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("db_connect_timeout", 5*time.Second)
	v.SetDefault("db_pool_max_conns", 10)
	v.SetDefault("db_pool_min_conns", 0)
	v.SetDefault("db_pool_max_conn_lifetime", time.Hour)
	v.SetDefault("db_pool_max_conn_idle_time", 30*time.Minute)
	v.SetDefault("db_pool_health_check_period", time.Minute)

	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_ttl", 24*time.Hour)

	v.SetDefault("s3_region", "auto")

	v.SetDefault("amqp_exchange", "notifications")
	v.SetDefault("amqp_queue", "notifications.email")

	v.SetDefault("dispatch_enabled", false)
	v.SetDefault("dispatch_spec", "@every 4h")
	v.SetDefault("dispatch_digest_spec", "@hourly")
	v.SetDefault("dispatch_workers", 4)
	v.SetDefault("dispatch_lock_ttl", 30*time.Minute)
	v.SetDefault("dispatch_link_base_url", "http://localhost:8080")

	v.SetDefault("log_json", false)
	v.SetDefault("log_debug", false)
}

// Load reads .env (when present), the optional file named by CONFIG_FILE and
// the process environment. Environment variables win over the file.
func Load() (Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

func LoadFile(file string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if strings.TrimSpace(file) != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, strings.ToUpper(key))
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg := Config{}
	cfg.App = AppConfig{
		Name:        req("app_name"),
		Environment: req("app_env"),
		HTTPPort:    opt("http_port"),
	}

	cfg.Database = DatabaseConfig{
		Host:                  opt("db_host"),
		Port:                  opt("db_port"),
		Name:                  opt("db_name"),
		User:                  opt("db_user"),
		Password:              v.GetString("db_password"),
		SSLMode:               opt("db_ssl_mode"),
		ConnectTimeout:        v.GetDuration("db_connect_timeout"),
		PoolMaxConns:          v.GetInt32("db_pool_max_conns"),
		PoolMinConns:          v.GetInt32("db_pool_min_conns"),
		PoolMaxConnLifetime:   v.GetDuration("db_pool_max_conn_lifetime"),
		PoolMaxConnIdleTime:   v.GetDuration("db_pool_max_conn_idle_time"),
		PoolHealthCheckPeriod: v.GetDuration("db_pool_health_check_period"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("redis_host"),
		Port:     opt("redis_port"),
		Password: v.GetString("redis_password"),
		DB:       v.GetInt("redis_db"),
		TTL:      v.GetDuration("redis_ttl"),
	}

	cfg.Registry = RegistryConfig{
		File:        opt("skills_file"),
		S3Bucket:    opt("s3_bucket"),
		S3Key:       opt("s3_skills_key"),
		S3Endpoint:  opt("s3_endpoint"),
		S3Region:    opt("s3_region"),
		S3AccessKey: opt("s3_access_key"),
		S3SecretKey: v.GetString("s3_secret_key"),
	}

	cfg.AMQP = AMQPConfig{
		URL:      opt("amqp_url"),
		Exchange: opt("amqp_exchange"),
		Queue:    opt("amqp_queue"),
	}

	cfg.Dispatch = DispatchConfig{
		Enabled:     v.GetBool("dispatch_enabled"),
		Spec:        opt("dispatch_spec"),
		DigestSpec:  opt("dispatch_digest_spec"),
		Workers:     v.GetInt("dispatch_workers"),
		LockTTL:     v.GetDuration("dispatch_lock_ttl"),
		LinkBaseURL: strings.TrimRight(opt("dispatch_link_base_url"), "/"),
	}

	cfg.Log = LogConfig{
		JSON:  v.GetBool("log_json"),
		Debug: v.GetBool("log_debug"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if cfg.Dispatch.Workers <= 0 {
		cfg.Dispatch.Workers = 1
	}

	return cfg, nil
}
