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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/PlaydeckProject/playdeck-core/pkg/api"
	"github.com/PlaydeckProject/playdeck-core/pkg/config"
	"github.com/PlaydeckProject/playdeck-core/pkg/engine/process"
	"github.com/PlaydeckProject/playdeck-core/pkg/helpers"
	"github.com/PlaydeckProject/playdeck-core/pkg/ingest"
	"github.com/PlaydeckProject/playdeck-core/pkg/input"
	"github.com/PlaydeckProject/playdeck-core/pkg/mappings"
	"github.com/PlaydeckProject/playdeck-core/pkg/session"
)

func main() {
	romPath := flag.String("rom", "", "game image or archive to launch at startup")
	engineCmd := flag.String("engine", "playdeck-engine", "emulation engine binary; extra args after --")
	apiAddr := flag.String("api-addr", "", "override the control API listen address")
	mirrorUinput := flag.Bool("uinput", false, "mirror input to a virtual OS keyboard")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("playdeck v" + config.AppVersion)
		os.Exit(0)
	}

	if err := run(*romPath, *engineCmd, flag.Args(), *apiAddr, *mirrorUinput); err != nil {
		log.Error().Err(err).Msg("exiting with error")
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(romPath, engineCmd string, engineArgs []string, apiAddr string, mirrorUinput bool) error {
	configDir := filepath.Join(xdg.ConfigHome, config.AppName)
	dataDir := filepath.Join(xdg.DataHome, config.AppName)

	// the terminal is taken over for keyboard capture, so logs go to file only
	if err := helpers.InitLogging(dataDir, nil); err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}
	log.Info().Msgf("playdeck v%s starting", config.AppVersion)

	cfg, err := config.NewConfig(configDir, config.BaseDefaults)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if apiAddr != "" {
		cfg.SetAPIAddr(apiAddr)
	}

	store, err := mappings.OpenStore(filepath.Join(dataDir, config.InputDbFile))
	if err != nil {
		return fmt.Errorf("failed to open input database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close input database")
		}
	}()

	router := input.NewRouter(cfg, store, clockwork.NewRealClock())
	ctl, notices := session.NewController(cfg, process.New(engineCmd, engineArgs...))
	server := api.NewServer(cfg, router, ctl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Msgf("received signal %s, shutting down", sig)
		cancel()
	}()

	go func() {
		if err := server.Start(ctx, notices); err != nil {
			log.Error().Err(err).Msg("control API stopped")
			cancel()
		}
	}()

	router.StartGamepadPolling(ctx, server.PadSource())

	sink := openKeyboardSink(mirrorUinput)
	if sink != nil {
		defer func() {
			if err := sink.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close uinput sink")
			}
		}()
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-router.Events():
				if !ok {
					return
				}
				if sink != nil {
					if err := sink.Forward(ev); err != nil {
						log.Debug().Err(err).Msg("uinput mirror failed")
					}
				}
				ctl.ForwardInput(ev)
			}
		}
	}()

	if romPath != "" {
		res, err := ingest.Ingest(romPath)
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", romPath, err)
		}
		if err := ctl.Launch(ctx, res); err != nil {
			log.Error().Err(err).Msg("initial launch failed")
		}
	}

	// blocks until quit or signal
	err = runKeyboard(ctx, cancel, router)

	// teardown order: stop pollers first so nothing feeds a dying session
	cancel()
	ctl.Teardown()
	return err
}
