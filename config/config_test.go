package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.True(t, cfg.SAJCEnabled)
	require.Zero(t, cfg.DisplayArea())
}

var invalidConfigs = map[string]func(c *Config){
	"Negative API Level": func(c *Config) { c.LaunchAPILevel = -1 },
	"Huge GDC Margin":    func(c *Config) { c.GDCMarginPercent = 150 },
	"Half Display":       func(c *Config) { c.DisplayWidth = 1080 },
	"No DCC Limit":       func(c *Config) { c.ProtectedDCCLimit = 0 },
}

func TestValidateRejects(t *testing.T) {
	for testName, mutate := range invalidConfigs {
		t.Run(testName, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestDisplayArea(t *testing.T) {
	cfg := Default()
	cfg.DisplayWidth = 1080
	cfg.DisplayHeight = 2400
	require.Equal(t, uint64(2592000), cfg.DisplayArea())
}
