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

package input

import (
	"context"

	"github.com/PlaydeckProject/playdeck-core/pkg/controls"
	"github.com/rs/zerolog/log"
)

// PadSample is one poll of a connected gamepad: digital button states by
// standard-layout index, and analog axis values in [-1, 1].
type PadSample struct {
	Buttons []bool
	Axes    []float64
}

// GamepadSource enumerates connected gamepads. Sample is called once per
// poll tick; index 0 is player 1, every later index is player 2.
type GamepadSource interface {
	Sample() []PadSample
}

// Standard-layout button indices mapped to logical controls.
var padButtons = map[int]controls.Button{
	0:  controls.ButtonB,
	1:  controls.ButtonA,
	2:  controls.ButtonY,
	3:  controls.ButtonX,
	4:  controls.ButtonL,
	5:  controls.ButtonR,
	8:  controls.ButtonSelect,
	9:  controls.ButtonStart,
	12: controls.ButtonUp,
	13: controls.ButtonDown,
	14: controls.ButtonLeft,
	15: controls.ButtonRight,
}

// Left-stick axes converted to the four directional controls, each direction
// edged independently per axis.
var stickDirections = []struct {
	button   controls.Button
	axis     int
	positive bool
}{
	{controls.ButtonLeft, 0, false},
	{controls.ButtonRight, 0, true},
	{controls.ButtonUp, 1, false},
	{controls.ButtonDown, 1, true},
}

// padState is the last-observed state of one device, kept only to derive
// down/up transitions. It is discarded and rebuilt whenever the device
// (dis)connects or changes shape.
type padState struct {
	buttons []bool
	stick   map[controls.Button]bool
}

func newPadState(buttonCount int) *padState {
	return &padState{
		buttons: make([]bool, buttonCount),
		stick:   make(map[controls.Button]bool, len(stickDirections)),
	}
}

// StartGamepadPolling runs the fixed-rate gamepad poll loop until ctx is
// cancelled. Cancellation stops the ticker; a cancelled poller never touches
// the router again.
func (r *Router) StartGamepadPolling(ctx context.Context, src GamepadSource) {
	go func() {
		ticker := r.clock.NewTicker(r.cfg.GamepadPollInterval())
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Debug().Msg("gamepad polling stopped")
				return
			case <-ticker.Chan():
				r.pollGamepads(src.Sample())
			}
		}
	}()
}

// pollGamepads diffs one round of samples against the per-device edge state
// and emits only rising/falling edges, never steady state.
func (r *Router) pollGamepads(samples []PadSample) {
	deadzone := r.cfg.Deadzone()

	r.mu.Lock()
	var evs []controls.Event

	for i := range samples {
		sample := &samples[i]
		player := controls.Player1
		if i >= 1 {
			player = controls.Player2
		}

		st, ok := r.pads[i]
		if !ok || len(st.buttons) != len(sample.Buttons) {
			// device (re)connected: start from a clean slate
			st = newPadState(len(sample.Buttons))
			r.pads[i] = st
		}

		for idx, pressed := range sample.Buttons {
			button, mapped := padButtons[idx]
			if !mapped {
				continue
			}
			if pressed == st.buttons[idx] {
				continue
			}
			st.buttons[idx] = pressed
			evs = append(evs, controls.Event{
				Button:     button,
				Transition: transitionFor(pressed),
				Player:     player,
			})
		}

		for _, dir := range stickDirections {
			if dir.axis >= len(sample.Axes) {
				continue
			}
			v := sample.Axes[dir.axis]
			active := v > deadzone
			if !dir.positive {
				active = v < -deadzone
			}
			if active == st.stick[dir.button] {
				continue
			}
			st.stick[dir.button] = active
			evs = append(evs, controls.Event{
				Button:     dir.button,
				Transition: transitionFor(active),
				Player:     player,
			})
		}
	}

	// release anything still held on devices that disappeared so the engine
	// never sees stuck controls
	for i, st := range r.pads {
		if i < len(samples) {
			continue
		}
		player := controls.Player1
		if i >= 1 {
			player = controls.Player2
		}
		for idx, pressed := range st.buttons {
			if button, mapped := padButtons[idx]; mapped && pressed {
				evs = append(evs, controls.Event{
					Button:     button,
					Transition: controls.TransitionUp,
					Player:     player,
				})
			}
		}
		for button, active := range st.stick {
			if active {
				evs = append(evs, controls.Event{
					Button:     button,
					Transition: controls.TransitionUp,
					Player:     player,
				})
			}
		}
		delete(r.pads, i)
	}

	r.mu.Unlock()
	r.send(evs)
}

func transitionFor(active bool) controls.Transition {
	if active {
		return controls.TransitionDown
	}
	return controls.TransitionUp
}
