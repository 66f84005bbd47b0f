// Playdeck Core
// Copyright (c) 2026 The Playdeck Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Playdeck Core.
//
// Playdeck Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Playdeck Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Playdeck Core.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PlaydeckProject/playdeck-core/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "PLAYDECK_CFG"
)

type Values struct {
	Input        Input   `toml:"input,omitempty"`
	Session      Session `toml:"session,omitempty"`
	API          API     `toml:"api,omitempty"`
	ConfigSchema int     `toml:"config_schema"`
	DebugLogging bool    `toml:"debug_logging"`
}

// Input holds tuning for the input router. Deadzone is the analog-stick
// magnitude below which a stick is treated as neutral; PollHz is the gamepad
// sampling rate.
type Input struct {
	Deadzone float64 `toml:"deadzone"`
	PollHz   int     `toml:"poll_hz"`
}

// Session holds tuning for the session controller's engine status polling.
type Session struct {
	StatusIntervalMs int `toml:"status_interval_ms"`
	ReadyTimeoutMs   int `toml:"ready_timeout_ms"`
}

// API holds settings for the local control API.
type API struct {
	Addr string `toml:"addr"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Input: Input{
		Deadzone: 0.5,
		PollHz:   60,
	},
	Session: Session{
		StatusIntervalMs: 500,
		ReadyTimeoutMs:   5000,
	},
	API: API{
		Addr: "127.0.0.1:7497",
	},
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	perf     *PerformanceProfile
	mu       syncutil.RWMutex
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	if err := cfg.Load(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	vals := c.defaults
	if err := toml.Unmarshal(data, &vals); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if vals.ConfigSchema > SchemaVersion {
		log.Warn().Msgf(
			"config schema %d is newer than supported %d, continuing",
			vals.ConfigSchema, SchemaVersion,
		)
	}
	vals.ConfigSchema = SchemaVersion

	c.vals = vals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = v
}

// Deadzone returns the analog-stick deadzone magnitude, clamped to a sane
// range so a corrupt config can't make sticks permanently active or dead.
func (c *Instance) Deadzone() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	dz := c.vals.Input.Deadzone
	if dz <= 0 || dz >= 1 {
		return c.defaults.Input.Deadzone
	}
	return dz
}

// GamepadPollInterval returns the tick interval for gamepad polling.
func (c *Instance) GamepadPollInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	hz := c.vals.Input.PollHz
	if hz <= 0 {
		hz = c.defaults.Input.PollHz
	}
	return time.Second / time.Duration(hz)
}

// StatusInterval returns the interval between engine status polls after a
// launch.
func (c *Instance) StatusInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ms := c.vals.Session.StatusIntervalMs
	if ms <= 0 {
		ms = c.defaults.Session.StatusIntervalMs
	}
	return time.Duration(ms) * time.Millisecond
}

// ReadyTimeout returns how long the session controller waits for the engine
// to report ready before degrading.
func (c *Instance) ReadyTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ms := c.vals.Session.ReadyTimeoutMs
	if ms <= 0 {
		ms = c.defaults.Session.ReadyTimeoutMs
	}
	return time.Duration(ms) * time.Millisecond
}

// SetAPIAddr overrides the control API listen address for this run. The
// override is not persisted.
func (c *Instance) SetAPIAddr(addr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.API.Addr = addr
}

func (c *Instance) APIAddr() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.API.Addr == "" {
		return c.defaults.API.Addr
	}
	return c.vals.API.Addr
}
