package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort string `mapstructure:"app_port"`

	MySQLHost string `mapstructure:"mysql_host"`
	MySQLPort string `mapstructure:"mysql_port"`
	MySQLDB   string `mapstructure:"mysql_db"`
	MySQLUser string `mapstructure:"mysql_user"`
	MySQLPass string `mapstructure:"mysql_pass"`

	RedisAddr string `mapstructure:"redis_addr"`
	RedisPass string `mapstructure:"redis_pass"`
	RedisDB   int    `mapstructure:"redis_db"`

	IdempTTLSecs int `mapstructure:"idempotency_ttl_seconds"`

	JWTSecret       string `mapstructure:"jwt_secret"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`

	// LeaveEntitlement is the yearly leave allowance for new balances.
	LeaveEntitlement int `mapstructure:"leave_entitlement"`

	// SweepInterval runs the expiry sweep inside the server; zero leaves it
	// to an external scheduler calling the sweep command.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`

	DocumentsDir     string `mapstructure:"documents_dir"`
	MaxDocumentBytes int64  `mapstructure:"max_document_bytes"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

var defaults = map[string]any{
	"app_port":                "8080",
	"mysql_host":              "mysql",
	"mysql_port":              "3306",
	"mysql_db":                "sinfopers",
	"mysql_user":              "sinfopers",
	"mysql_pass":              "sinfopers",
	"redis_addr":              "redis:6379",
	"redis_pass":              "",
	"redis_db":                0,
	"idempotency_ttl_seconds": 300,
	"jwt_secret":              "change-me-in-production",
	"token_ttl_minutes":       60,
	"leave_entitlement":       12,
	"sweep_interval":          "1h",
	"documents_dir":           "./data/documents",
	"max_document_bytes":      5 << 20,
	"log_level":               "info",
	"log_format":              "console",
}

// Load reads an optional config file, then SINFOPERS_* environment variables
// (SINFOPERS_MYSQL_HOST, ...), over the defaults above.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvPrefix("SINFOPERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.LeaveEntitlement < 0 {
		return fmt.Errorf("invalid LEAVE_ENTITLEMENT %d", c.LeaveEntitlement)
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("invalid SWEEP_INTERVAL %s", c.SweepInterval)
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME/DATE columns
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
