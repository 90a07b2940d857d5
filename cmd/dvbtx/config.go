package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sdrkit/dvbtx"
)

// fileConfig mirrors the YAML configuration file. Pointer fields separate
// "not set" from zero values.
type fileConfig struct {
	Ratio      string   `yaml:"ratio"`
	RollOff    *float64 `yaml:"roll_off"`
	PowerDB    *float64 `yaml:"power_db"`
	AGC        *bool    `yaml:"agc"`
	RandPeriod *int     `yaml:"rand_period"`
}

// applyFile overlays settings from a YAML file onto cfg.
func applyFile(path string, cfg *dvbtx.Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if fc.Ratio != "" {
		interp, decim, err := parseRatio(fc.Ratio)
		if err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
		cfg.Interp, cfg.Decim = interp, decim
	}
	if fc.RollOff != nil {
		cfg.RollOff = *fc.RollOff
	}
	if fc.PowerDB != nil {
		cfg.Power = dbToLinear(*fc.PowerDB)
	}
	if fc.AGC != nil {
		cfg.AGC = *fc.AGC
	}
	if fc.RandPeriod != nil {
		cfg.RandPeriod = *fc.RandPeriod
	}
	return nil
}
