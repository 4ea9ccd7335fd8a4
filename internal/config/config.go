package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	// Driver selects the backend: "sqlite" (development) or "postgres".
	Driver  string `mapstructure:"driver"`
	Path    string `mapstructure:"path"` // sqlite file path
	DSN     string `mapstructure:"dsn"`  // postgres connection string
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret             string `mapstructure:"secret"`
	AccessExpireMin    int    `mapstructure:"access_expire_minutes"`
	RefreshExpireDays  int    `mapstructure:"refresh_expire_days"`
	ResetTokenTTLHours int    `mapstructure:"reset_token_ttl_hours"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type BackupConfig struct {
	Dir      string `mapstructure:"dir"`
	KeepDays int    `mapstructure:"keep_days"`
}

type PushConfig struct {
	GatewayURL string `mapstructure:"gateway_url"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Push     PushConfig     `mapstructure:"push"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load reads configuration from the given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in the current working
// directory. A local .env file, if present, is loaded first so that ACT_*
// environment overrides work the same way in dev and in production.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		// missing .env is fine
		_ = godotenv.Load()

		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. ACT_SERVER_PORT=9000
		v.SetEnvPrefix("ACT")
		v.AutomaticEnv()

		setDefaults(v)

		if err = v.ReadInConfig(); err != nil {
			// the config file is optional when everything comes from env
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				err = fmt.Errorf("read config: %w", err)
				return
			}
			err = nil
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/act.db")
	v.SetDefault("jwt.secret", "CHANGE_ME_SUPER_SECRET")
	v.SetDefault("jwt.access_expire_minutes", 15)
	v.SetDefault("jwt.refresh_expire_days", 14)
	v.SetDefault("jwt.reset_token_ttl_hours", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("backup.dir", "backups")
	v.SetDefault("backup.keep_days", 30)
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
