package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lan-monitor/internal/models"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "sweep", "report"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))
}

func TestPrintSweep(t *testing.T) {
	var buf bytes.Buffer
	err := printSweep(&buf, &models.SweepReport{
		Results: []models.SubnetResult{
			{Subnet: "10.0.0.*", Department: "eng", ActiveHosts: 2},
		},
		TotalActive: 2,
		Duration:    1500 * time.Millisecond,
		Errors:      []string{"Error scanning 10.0.x.*: invalid subnet"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "SUBNET")
	assert.Contains(t, out, "10.0.0.*  eng         2")
	assert.Contains(t, out, "Active Devices Count: 2 (swept in 1.5s)")
	assert.Contains(t, out, "Error scanning 10.0.x.*: invalid subnet")
}

func TestSweepRejectsInvalidConfig(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"sweep", "--config", "does-not-exist.yaml"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	assert.Error(t, root.Execute())
}
