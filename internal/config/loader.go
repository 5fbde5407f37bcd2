package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"lan-monitor/internal/ping"
)

// EnvPrefix prefixes environment overrides, e.g. LANMON_SERVER_PORT
const EnvPrefix = "LANMON"

// Load reads configuration from path, or from config.yaml in ./configs or the
// working directory when path is empty. A missing default file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if !v.IsSet("subnets") {
		cfg.Subnets = DefaultSubnets()
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "lan_monitor.db")

	v.SetDefault("sweep.interval", 3*time.Minute)
	v.SetDefault("sweep.probe_timeout", time.Second)
	v.SetDefault("sweep.workers", 100)
	v.SetDefault("sweep.max_hosts", 4096)
	v.SetDefault("sweep.prober", ping.KindExec)
	v.SetDefault("sweep.privileged", false)

	v.SetDefault("bandwidth.interval", 2*time.Minute)
	v.SetDefault("bandwidth.sample_interval", time.Second)
	v.SetDefault("bandwidth.window", 2*time.Hour)
	v.SetDefault("bandwidth.retention", 7*24*time.Hour)

	v.SetDefault("connectivity.url", "https://www.google.com")
	v.SetDefault("connectivity.timeout", time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/lan-monitor.log")
	v.SetDefault("log.max_size", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.compress", true)
}
