// Package config はサーバー・データベース・ログの設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// 対応しているデータベースドライバー
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ServerConfig はHTTPサーバーの待ち受け設定です。
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr は "host:port" 形式のアドレスを返します。
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// PostgresConfig はPostgreSQLへの接続パラメータです。
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DBName   string `toml:"dbname"`
	SSLMode  string `toml:"sslmode"`
}

// DSN はpgxに渡す接続文字列を構築します。
func (p PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.DBName,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	return u.String()
}

// DatabaseConfig はドライバー選択とコネクションプールの設定です。
type DatabaseConfig struct {
	Driver          string         `toml:"driver"`
	Postgres        PostgresConfig `toml:"pg"`
	SQLitePath      string         `toml:"sqlite_path"`
	MaxOpenConns    int            `toml:"max_open_conns"`
	MaxIdleConns    int            `toml:"max_idle_conns"`
	ConnMaxLifetime duration       `toml:"conn_max_lifetime"`
	Migrate         bool           `toml:"migrate"`
}

// LogConfig はログ出力の設定です。
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" (tint) または "json"
}

// CORSConfig は許可するオリジンの設定です。
type CORSConfig struct {
	AllowOrigins []string `toml:"allow_origins"`
}

// Config はアプリケーション全体の設定です。
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	CORS     CORSConfig     `toml:"cors"`
}

// duration はTOMLで "5m" のような文字列を受け付けるための型です。
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default はデフォルト値を設定した Config を返します。
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Database: DatabaseConfig{
			Driver: DriverPostgres,
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
			},
			SQLitePath:      "./data/todo.db",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: duration{5 * time.Minute},
			Migrate:         true,
		},
		Log:  LogConfig{Level: "info", Format: "text"},
		CORS: CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
	}
}

// Load は設定を次の順で読み込みます (後のものが優先)。
//  1. デフォルト値
//  2. CONFIG_FILE で指定されたTOMLファイル
//  3. .env ファイル (envFiles を省略した場合はカレントディレクトリの .env)
//  4. 環境変数
func Load(envFiles ...string) (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// godotenv は既に設定されている環境変数を上書きしない
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は起動前に設定値の整合性を確認します。
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Postgres.DBName == "" {
			return errors.New("PG_DBNAME is required for the postgres driver")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown database driver: %q", c.Database.Driver)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.Log.Format)
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	var errs []error
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	setString("SERVER_HOST", &cfg.Server.Host)
	setInt("SERVER_PORT", &cfg.Server.Port)

	setString("DB_DRIVER", &cfg.Database.Driver)
	setString("PG_HOST", &cfg.Database.Postgres.Host)
	setInt("PG_PORT", &cfg.Database.Postgres.Port)
	setString("PG_USER", &cfg.Database.Postgres.User)
	setString("PG_PASSWORD", &cfg.Database.Postgres.Password)
	setString("PG_DBNAME", &cfg.Database.Postgres.DBName)
	setString("PG_SSLMODE", &cfg.Database.Postgres.SSLMode)
	setString("SQLITE_PATH", &cfg.Database.SQLitePath)
	setInt("DB_MAX_OPEN_CONNS", &cfg.Database.MaxOpenConns)
	setInt("DB_MAX_IDLE_CONNS", &cfg.Database.MaxIdleConns)
	if v, ok := os.LookupEnv("DB_CONN_MAX_LIFETIME"); ok && v != "" {
		if err := cfg.Database.ConnMaxLifetime.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err))
		}
	}
	setBool("DB_MIGRATE", &cfg.Database.Migrate)

	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("LOG_FORMAT", &cfg.Log.Format)

	if v, ok := os.LookupEnv("CORS_ALLOW_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORS.AllowOrigins = origins
	}

	return errors.Join(errs...)
}
