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

// Package uinputsink forwards normalized input events to a virtual OS-level
// keyboard. It is the fallback input path for engines that expose no input
// API of their own: the engine just reads the default keyboard bindings.
package uinputsink

import (
	"fmt"

	"github.com/PlaydeckProject/playdeck-core/pkg/controls"
)

// Keyboard is the subset of the uinput keyboard device the sink drives.
type Keyboard interface {
	KeyDown(key int) error
	KeyUp(key int) error
	Close() error
}

// Sink translates control events into key events on a virtual keyboard,
// using fixed per-player evdev key codes matching the default keyboard
// bindings.
type Sink struct {
	dev Keyboard
}

func newSink(dev Keyboard) *Sink {
	return &Sink{dev: dev}
}

// NewWithDevice wraps an existing keyboard device; used by tests and by
// callers that manage the device themselves.
func NewWithDevice(dev Keyboard) *Sink {
	return newSink(dev)
}

// evdev key codes per player, matching the default keyboard bindings so the
// engine's own defaults line up with what the sink types.
var keymap = map[controls.Player]map[controls.Button]int{
	controls.Player1: {
		controls.ButtonUp:     103, // KEY_UP
		controls.ButtonDown:   108, // KEY_DOWN
		controls.ButtonLeft:   105, // KEY_LEFT
		controls.ButtonRight:  106, // KEY_RIGHT
		controls.ButtonA:      45,  // KEY_X
		controls.ButtonB:      44,  // KEY_Z
		controls.ButtonX:      31,  // KEY_S
		controls.ButtonY:      30,  // KEY_A
		controls.ButtonL:      16,  // KEY_Q
		controls.ButtonR:      17,  // KEY_W
		controls.ButtonStart:  28,  // KEY_ENTER
		controls.ButtonSelect: 54,  // KEY_RIGHTSHIFT
	},
	controls.Player2: {
		controls.ButtonUp:     23, // KEY_I
		controls.ButtonDown:   37, // KEY_K
		controls.ButtonLeft:   36, // KEY_J
		controls.ButtonRight:  38, // KEY_L
		controls.ButtonA:      35, // KEY_H
		controls.ButtonB:      34, // KEY_G
		controls.ButtonX:      21, // KEY_Y
		controls.ButtonY:      20, // KEY_T
		controls.ButtonL:      22, // KEY_U
		controls.ButtonR:      24, // KEY_O
		controls.ButtonStart:  25, // KEY_P
		controls.ButtonSelect: 49, // KEY_N
	},
}

// Forward types one control event on the virtual keyboard. Events for
// controls without a key code are silently dropped.
func (s *Sink) Forward(ev controls.Event) error {
	key, ok := keymap[ev.Player][ev.Button]
	if !ok {
		return nil
	}

	var err error
	if ev.Transition == controls.TransitionDown {
		err = s.dev.KeyDown(key)
	} else {
		err = s.dev.KeyUp(key)
	}
	if err != nil {
		return fmt.Errorf("failed to forward %s %s: %w", ev.Button, ev.Transition, err)
	}
	return nil
}

func (s *Sink) Close() error {
	if err := s.dev.Close(); err != nil {
		return fmt.Errorf("failed to close uinput keyboard: %w", err)
	}
	return nil
}
