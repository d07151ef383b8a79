package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabidaudio/dataflash/at45"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataflash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
device: AT45DB041
spidev:
  cs_pin: GPIO22
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "spidev", c.Transport)
	assert.Equal(t, "SPI0.0", c.Spidev.Port)
	assert.Equal(t, 10, c.Spidev.SpeedMHz)
	assert.Equal(t, at45.AT45DB041, c.Density())
}

func TestLoadRpio(t *testing.T) {
	path := writeConfig(t, `
device: AT45DB161
transport: rpio
rpio:
  bus: 0
  cs_pin: 8
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rpio", c.Transport)
	assert.Equal(t, uint8(8), c.Rpio.CSPin)
	assert.Equal(t, 10_000_000, c.Rpio.SpeedHz)
	assert.Equal(t, at45.AT45DB161, c.Density())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown device", "device: AT99XX123\n"},
		{"missing device", "transport: rpio\n"},
		{"unknown transport", "device: AT45DB041\ntransport: i2c\n"},
		{"spidev without cs pin", "device: AT45DB041\ntransport: spidev\n"},
		{"not yaml", "{{{{\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
