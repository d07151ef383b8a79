// Package config loads the dataflash tool configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rabidaudio/dataflash/at45"
)

// Config selects the expected chip and how to reach it.
type Config struct {
	Device    string       `yaml:"device"`    // chip family, e.g. AT45DB041
	Transport string       `yaml:"transport"` // "spidev" or "rpio"
	Spidev    SpidevConfig `yaml:"spidev"`
	Rpio      RpioConfig   `yaml:"rpio"`
}

// SpidevConfig configures the periph.io spidev transport.
type SpidevConfig struct {
	Port     string `yaml:"port"`      // e.g. SPI0.0
	CSPin    string `yaml:"cs_pin"`    // e.g. GPIO22
	SpeedMHz int    `yaml:"speed_mhz"` // clock rate, MHz
}

// RpioConfig configures the go-rpio transport.
type RpioConfig struct {
	Bus     int   `yaml:"bus"`      // SPI controller number
	CSPin   uint8 `yaml:"cs_pin"`   // BCM pin number of the select line
	SpeedHz int   `yaml:"speed_hz"` // clock rate, Hz
}

// Load reads, defaults and validates a config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Transport == "" {
		c.Transport = "spidev"
	}
	if c.Spidev.Port == "" {
		c.Spidev.Port = "SPI0.0"
	}
	if c.Spidev.SpeedMHz == 0 {
		c.Spidev.SpeedMHz = 10
	}
	if c.Rpio.SpeedHz == 0 {
		c.Rpio.SpeedHz = 10_000_000
	}
}

// Validate checks the chip name and transport selection.
func (c *Config) Validate() error {
	if _, err := at45.ParseDensity(c.Device); err != nil {
		return fmt.Errorf("config: device: %w", err)
	}
	switch c.Transport {
	case "spidev":
		if c.Spidev.CSPin == "" {
			return fmt.Errorf("config: spidev.cs_pin is required")
		}
	case "rpio":
	default:
		return fmt.Errorf("config: unknown transport %q", c.Transport)
	}
	return nil
}

// Density returns the expected chip family. Only valid after Validate.
func (c *Config) Density() at45.Density {
	d, _ := at45.ParseDensity(c.Device)
	return d
}
