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

// Package engine defines the contract between Playdeck and the external
// emulation engine. Playdeck never executes instructions or synthesizes
// audio/video itself; it launches an engine with a cartridge payload and
// drives it through this narrow surface. Engines may implement any subset of
// the optional capabilities.
package engine

import (
	"context"
	"errors"

	"github.com/PlaydeckProject/playdeck-core/pkg/controls"
)

// ErrUnsupported is returned for operations the launched engine does not
// implement. It is an expected outcome, not a failure.
var ErrUnsupported = errors.New("operation not supported by engine")

// StatusReady is the status token an engine reports once fully initialized.
const StatusReady = "ready"

// Config is everything an engine needs to start a session.
type Config struct {
	// CoreID selects the emulation core, from the console profile.
	CoreID string
	// RomName is the payload's source file name, for display and logging.
	RomName string
	// Rom is the cartridge payload.
	Rom []byte
	// LowSpec asks the engine to trade accuracy for speed on constrained
	// devices.
	LowSpec bool
}

// Engine launches sessions. Launch blocks until the engine process or
// runtime has accepted the session, honoring ctx for cancellation.
type Engine interface {
	Launch(ctx context.Context, cfg Config) (Handle, error)
}

// Handle is a live engine session. Exit is the only required operation;
// everything else is negotiated through the optional interfaces below.
type Handle interface {
	Exit() error
}

// InputReceiver is implemented by engines that accept control input.
type InputReceiver interface {
	Press(button controls.Button, player int) error
	Release(button controls.Button, player int) error
}

// StatusReporter is implemented by engines that report a status token.
type StatusReporter interface {
	Status() (string, error)
}

// StatePersister is implemented by engines that can snapshot and restore
// emulation state.
type StatePersister interface {
	SaveState() ([]byte, error)
	LoadState(blob []byte) error
}
