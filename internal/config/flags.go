package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flags onto configuration keys
var flagKeys = map[string]string{
	"port":      "server.port",
	"driver":    "database.driver",
	"db":        "database.dsn",
	"workers":   "sweep.workers",
	"prober":    "sweep.prober",
	"log-level": "log.level",
}

// BindFlags lets any of the known flags present in flags override the config file
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}
