package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lan-monitor/internal/models"
	"lan-monitor/internal/ping"
	"lan-monitor/internal/subnet"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 3*time.Minute, cfg.Sweep.Interval)
	assert.Equal(t, time.Second, cfg.Sweep.ProbeTimeout)
	assert.Equal(t, 100, cfg.Sweep.Workers)
	assert.Equal(t, 2*time.Minute, cfg.Bandwidth.Interval)
	assert.Equal(t, 2*time.Hour, cfg.Bandwidth.Window)
	assert.Equal(t, DefaultSubnets(), cfg.Subnets)
	assert.Len(t, cfg.Subnets, 19)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: mysql
  dsn: "root:secret@tcp(localhost:3306)/network_monitor"
sweep:
  interval: 90s
  workers: 32
  prober: icmp
bandwidth:
  window: 30m
subnets:
  - subnet: "10.0.0.*"
    department: eng
  - subnet: 10.0.1.0/25
    department: ops
`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 90*time.Second, cfg.Sweep.Interval)
	assert.Equal(t, 32, cfg.Sweep.Workers)
	assert.Equal(t, ping.KindICMP, cfg.Sweep.Prober)
	assert.Equal(t, 30*time.Minute, cfg.Bandwidth.Window)
	assert.Equal(t, models.SubnetSpec{
		{Subnet: "10.0.0.*", Department: "eng"},
		{Subnet: "10.0.1.0/25", Department: "ops"},
	}, cfg.Subnets)
}

func TestLoadEmptySubnetList(t *testing.T) {
	cfg, err := Load(viper.New(), writeConfig(t, "subnets: []\n"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.Subnets)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LANMON_SERVER_PORT", "7070")
	t.Setenv("LANMON_SWEEP_INTERVAL", "10m")

	cfg, err := Load(viper.New(), writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 10*time.Minute, cfg.Sweep.Interval)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestBindFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 8080, "")
	flags.String("db", "lan_monitor.db", "")
	require.NoError(t, flags.Parse([]string{"--port", "6060"}))

	v := viper.New()
	require.NoError(t, BindFlags(v, flags))

	cfg, err := Load(v, writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
	assert.Equal(t, "lan_monitor.db", cfg.Database.DSN)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(viper.New(), writeConfig(t, "server:\n  port: 8080\n"))
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, ok: true},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }},
		{name: "empty dsn", mutate: func(c *Config) { c.Database.DSN = "" }},
		{name: "zero sweep interval", mutate: func(c *Config) { c.Sweep.Interval = 0 }},
		{name: "zero workers", mutate: func(c *Config) { c.Sweep.Workers = 0 }},
		{name: "unknown prober", mutate: func(c *Config) { c.Sweep.Prober = "arp" }},
		{name: "icmp prober", mutate: func(c *Config) { c.Sweep.Prober = ping.KindICMP }, ok: true},
		{name: "uncapped max hosts", mutate: func(c *Config) { c.Sweep.MaxHosts = 0 }},
		{name: "negative max hosts", mutate: func(c *Config) { c.Sweep.MaxHosts = -1 }},
		{name: "max hosts above a /16", mutate: func(c *Config) { c.Sweep.MaxHosts = subnet.MaxHosts + 1 }},
		{name: "retention shorter than window", mutate: func(c *Config) { c.Bandwidth.Retention = time.Minute }},
		{name: "missing department", mutate: func(c *Config) {
			c.Subnets = models.SubnetSpec{{Subnet: "10.0.0.*"}}
		}},
		{name: "duplicate identifier", mutate: func(c *Config) {
			c.Subnets = models.SubnetSpec{{Subnet: "10.0.0.*", Department: "a"}, {Subnet: "10.0.0.*", Department: "b"}}
		}},
		{name: "same network spelled twice", mutate: func(c *Config) {
			c.Subnets = models.SubnetSpec{{Subnet: "10.0.0.*", Department: "a"}, {Subnet: "10.0.0.0/24", Department: "b"}}
		}},
		{name: "malformed subnet left for the sweep", mutate: func(c *Config) {
			c.Subnets = models.SubnetSpec{{Subnet: "10.*.0.*", Department: "a"}}
		}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
