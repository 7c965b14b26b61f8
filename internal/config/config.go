// Package config loads the application configuration from a TOML file,
// trying several candidate paths, and fills defaults for unset fields.
package config

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"
)

// MainConfig holds basic server settings.
type MainConfig struct {
	AppName string `toml:"appName"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Mode    string `toml:"mode"` // dev | release
	TLS     bool   `toml:"tls"`  // redirect to https and set security headers

	StaticPath string `toml:"staticPath"` // browser client, served at /public
	CertFile   string `toml:"certFile"`   // with keyFile, serve HTTPS when tls is set
	KeyFile    string `toml:"keyFile"`
}

// DatabaseConfig selects the gorm driver.
type DatabaseConfig struct {
	Driver     string `toml:"driver"`     // mysql | sqlite
	SqlitePath string `toml:"sqlitePath"` // used when driver = sqlite
}

// MysqlConfig MySQL connection settings.
type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

// RedisConfig Redis connection settings.
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"`
	Db       int    `toml:"db"`
}

// LogConfig rotation settings, see lumberjack.
type LogConfig struct {
	LogPath    string `toml:"logPath"`
	FileName   string `toml:"fileName"`
	MaxSize    int    `toml:"maxSize"`    // MB
	MaxBackups int    `toml:"maxBackups"` // files
	MaxAge     int    `toml:"maxAge"`     // days
	Level      string `toml:"level"`      // debug, info, warn, error
}

// KafkaConfig moderation event stream settings.
type KafkaConfig struct {
	EventMode   string `toml:"eventMode"` // "kafka" or "log"
	HostPort    string `toml:"hostPort"`
	EventTopic  string `toml:"eventTopic"`
	Partition   int    `toml:"partition"`
	TimeoutSecs int    `toml:"timeout"`
}

// JWTConfig token settings.
type JWTConfig struct {
	Secret            string `toml:"secret"`
	AccessTokenExpiry int    `toml:"accessTokenExpiry"` // minutes
}

// SnowflakeConfig message id node settings.
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 0-1023
}

// ChatConfig realtime core settings.
type ChatConfig struct {
	Timezone             string `toml:"timezone"`
	SweepIntervalSeconds int    `toml:"sweepIntervalSeconds"`
	DefaultRetention     int    `toml:"defaultRetention"`
	DefaultRetentionUnit string `toml:"defaultRetentionUnit"`
	ReportThreshold      int    `toml:"reportThreshold"`
	MaxMessageLength     int    `toml:"maxMessageLength"` // runes
	SendBufferSize       int    `toml:"sendBufferSize"`
}

// SuperAdminConfig credentials of the built-in super admin.
type SuperAdminConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Config aggregates all sub-configurations.
type Config struct {
	MainConfig       `toml:"mainConfig"`
	DatabaseConfig   `toml:"databaseConfig"`
	MysqlConfig      `toml:"mysqlConfig"`
	RedisConfig      `toml:"redisConfig"`
	LogConfig        `toml:"logConfig"`
	KafkaConfig      `toml:"kafkaConfig"`
	JWTConfig        `toml:"jwtConfig"`
	SnowflakeConfig  `toml:"snowflakeConfig"`
	ChatConfig       `toml:"chatConfig"`
	SuperAdminConfig `toml:"superAdminConfig"`
}

var (
	config     *Config
	configOnce sync.Once
)

// searchPaths are tried in order; local overrides win.
var searchPaths = []string{
	"configs/config_local.toml",
	"configs/config.toml",
	"../../configs/config_local.toml",
	"../../configs/config.toml",
}

// LoadConfig decodes the first readable candidate into c.
func LoadConfig(c *Config, paths ...string) error {
	if len(paths) == 0 {
		paths = searchPaths
	}
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, c); err == nil {
			return nil
		}
	}
	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig returns the process-wide configuration, loading it on first use.
// A missing file is tolerated: defaults cover every field.
func GetConfig() *Config {
	configOnce.Do(func() {
		config = new(Config)
		_ = LoadConfig(config)
		config.ApplyDefaults()
	})
	return config
}

// ApplyDefaults fills zero fields.
func (c *Config) ApplyDefaults() {
	if c.AppName == "" {
		c.AppName = "bsu_chat_server"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = "0.0.0.0"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 3000
	}
	if c.Mode == "" {
		c.Mode = "dev"
	}
	if c.StaticPath == "" {
		c.StaticPath = "public"
	}
	if c.Driver == "" {
		c.Driver = "mysql"
	}
	if c.SqlitePath == "" {
		c.SqlitePath = "bsu_chat.db"
	}
	if c.MysqlConfig.Port == 0 {
		c.MysqlConfig.Port = 3306
	}
	if c.RedisConfig.Host == "" {
		c.RedisConfig.Host = "127.0.0.1"
	}
	if c.RedisConfig.Port == 0 {
		c.RedisConfig.Port = 6379
	}
	if c.LogPath == "" {
		c.LogPath = "logs"
	}
	if c.EventMode == "" {
		c.EventMode = "log"
	}
	if c.EventTopic == "" {
		c.EventTopic = "bsu_chat_moderation"
	}
	if c.TimeoutSecs == 0 {
		c.TimeoutSecs = 1
	}
	if c.Secret == "" {
		c.Secret = "bsu-chat-secret-key-2024"
	}
	if c.AccessTokenExpiry == 0 {
		c.AccessTokenExpiry = 24 * 60
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Baku"
	}
	if c.SweepIntervalSeconds <= 0 {
		c.SweepIntervalSeconds = 60
	}
	if c.DefaultRetention <= 0 {
		c.DefaultRetention = 60
	}
	if c.DefaultRetentionUnit == "" {
		c.DefaultRetentionUnit = "minutes"
	}
	if c.ReportThreshold <= 0 {
		c.ReportThreshold = 8
	}
	if c.MaxMessageLength <= 0 {
		c.MaxMessageLength = 2000
	}
	if c.SendBufferSize <= 0 {
		c.SendBufferSize = 256
	}
}
