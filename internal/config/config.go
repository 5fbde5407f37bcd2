package config

import (
	"fmt"
	"net/netip"
	"time"

	"lan-monitor/internal/models"
	"lan-monitor/internal/ping"
	"lan-monitor/internal/subnet"
)

// Config holds all configuration for the LAN monitor
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Sweep        SweepConfig        `mapstructure:"sweep"`
	Bandwidth    BandwidthConfig    `mapstructure:"bandwidth"`
	Connectivity ConnectivityConfig `mapstructure:"connectivity"`
	Log          LogConfig          `mapstructure:"log"`
	Subnets      models.SubnetSpec  `mapstructure:"subnets"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// SweepConfig controls the liveness sweep
type SweepConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	Workers      int           `mapstructure:"workers"`
	MaxHosts     int           `mapstructure:"max_hosts"`
	Prober       string        `mapstructure:"prober"`
	Privileged   bool          `mapstructure:"privileged"`
}

// BandwidthConfig controls the throughput sampler and its display window
type BandwidthConfig struct {
	Interval       time.Duration `mapstructure:"interval"`
	SampleInterval time.Duration `mapstructure:"sample_interval"`
	Window         time.Duration `mapstructure:"window"`
	Retention      time.Duration `mapstructure:"retention"`
}

type ConnectivityConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig selects level, format and destination of the log
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// DefaultSubnets returns the departmental subnets swept when none are configured
func DefaultSubnets() models.SubnetSpec {
	return models.SubnetSpec{
		{Subnet: "10.53.2.*", Department: "tele"},
		{Subnet: "10.53.3.*", Department: "stores"},
		{Subnet: "10.53.4.*", Department: "itc"},
		{Subnet: "10.53.5.*", Department: "mechF"},
		{Subnet: "10.53.6.*", Department: "pers"},
		{Subnet: "10.53.7.*", Department: "MechS"},
		{Subnet: "10.53.8.*", Department: "admin"},
		{Subnet: "10.53.9.*", Department: "hosp"},
		{Subnet: "10.53.10.*", Department: "accts"},
		{Subnet: "10.53.11.*", Department: "engg"},
		{Subnet: "10.53.12.*", Department: "dnd"},
		{Subnet: "10.53.13.*", Department: "secur"},
		{Subnet: "10.53.14.*", Department: "acctf"},
		{Subnet: "10.53.15.*", Department: "mgmt"},
		{Subnet: "10.53.16.*", Department: "mechss"},
		{Subnet: "10.53.17.*", Department: "dslam"},
		{Subnet: "10.53.18.*", Department: "chems"},
		{Subnet: "10.53.19.*", Department: "elec"},
		{Subnet: "10.53.20.*", Department: "actp"},
	}
}

// Validate checks if the configuration is valid. Malformed subnet identifiers
// are left for the sweep to report; duplicates are rejected here.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn cannot be empty")
	}
	if c.Sweep.Interval <= 0 {
		return fmt.Errorf("sweep interval must be positive")
	}
	if c.Sweep.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive")
	}
	if c.Sweep.Workers <= 0 {
		return fmt.Errorf("sweep workers must be positive")
	}
	if c.Sweep.MaxHosts < 1 || c.Sweep.MaxHosts > subnet.MaxHosts {
		return fmt.Errorf("sweep max_hosts must be between 1 and %d", subnet.MaxHosts)
	}
	switch c.Sweep.Prober {
	case ping.KindExec, ping.KindICMP:
	default:
		return fmt.Errorf("unknown prober %q (want %s or %s)", c.Sweep.Prober, ping.KindExec, ping.KindICMP)
	}
	if c.Bandwidth.Interval <= 0 || c.Bandwidth.SampleInterval <= 0 {
		return fmt.Errorf("bandwidth intervals must be positive")
	}
	if c.Bandwidth.Window <= 0 {
		return fmt.Errorf("bandwidth window must be positive")
	}
	if c.Bandwidth.Retention < c.Bandwidth.Window {
		return fmt.Errorf("bandwidth retention (%s) is shorter than the display window (%s)", c.Bandwidth.Retention, c.Bandwidth.Window)
	}
	if c.Connectivity.URL == "" {
		return fmt.Errorf("connectivity url cannot be empty")
	}
	if c.Connectivity.Timeout <= 0 {
		return fmt.Errorf("connectivity timeout must be positive")
	}

	return validateSubnets(c.Subnets)
}

func validateSubnets(spec models.SubnetSpec) error {
	identifiers := make(map[string]struct{}, len(spec))
	blocks := make(map[netip.Prefix]string, len(spec))

	for _, entry := range spec {
		if entry.Subnet == "" {
			return fmt.Errorf("subnet entry for department %q has no subnet", entry.Department)
		}
		if entry.Department == "" {
			return fmt.Errorf("subnet %s has no department", entry.Subnet)
		}
		if _, dup := identifiers[entry.Subnet]; dup {
			return fmt.Errorf("subnet %s is listed more than once", entry.Subnet)
		}
		identifiers[entry.Subnet] = struct{}{}

		prefix, err := subnet.Parse(entry.Subnet)
		if err != nil {
			continue
		}
		if other, dup := blocks[prefix]; dup {
			return fmt.Errorf("subnets %s and %s describe the same network %s", other, entry.Subnet, prefix)
		}
		blocks[prefix] = entry.Subnet
	}
	return nil
}
