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

package engine

import "github.com/PlaydeckProject/playdeck-core/pkg/controls"

// Adapter resolves an engine handle's capabilities once, at launch. Callers
// then get stable no-op/ErrUnsupported behavior for anything the engine
// lacks, instead of per-call probing.
type Adapter struct {
	handle Handle
	input  InputReceiver
	status StatusReporter
	state  StatePersister
}

// NewAdapter negotiates the handle's capabilities.
func NewAdapter(h Handle) *Adapter {
	a := &Adapter{handle: h}
	if in, ok := h.(InputReceiver); ok {
		a.input = in
	}
	if st, ok := h.(StatusReporter); ok {
		a.status = st
	}
	if sp, ok := h.(StatePersister); ok {
		a.state = sp
	}
	return a
}

// HasInput reports whether the engine accepts control input.
func (a *Adapter) HasInput() bool { return a.input != nil }

// HasStatus reports whether the engine reports status.
func (a *Adapter) HasStatus() bool { return a.status != nil }

// HasState reports whether the engine supports state snapshots.
func (a *Adapter) HasState() bool { return a.state != nil }

// Press forwards a press, or does nothing if the engine takes no input.
func (a *Adapter) Press(button controls.Button, player int) error {
	if a.input == nil {
		return nil
	}
	return a.input.Press(button, player)
}

// Release forwards a release, or does nothing if the engine takes no input.
func (a *Adapter) Release(button controls.Button, player int) error {
	if a.input == nil {
		return nil
	}
	return a.input.Release(button, player)
}

// Status returns the engine's status token, or ErrUnsupported.
func (a *Adapter) Status() (string, error) {
	if a.status == nil {
		return "", ErrUnsupported
	}
	return a.status.Status()
}

// SaveState snapshots emulation state, or returns ErrUnsupported.
func (a *Adapter) SaveState() ([]byte, error) {
	if a.state == nil {
		return nil, ErrUnsupported
	}
	return a.state.SaveState()
}

// LoadState restores emulation state, or returns ErrUnsupported.
func (a *Adapter) LoadState(blob []byte) error {
	if a.state == nil {
		return ErrUnsupported
	}
	return a.state.LoadState(blob)
}

// Exit asks the engine session to terminate and release resources.
func (a *Adapter) Exit() error {
	return a.handle.Exit()
}
